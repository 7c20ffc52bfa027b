package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/podlens/pkg/errors"
	"github.com/matzehuels/podlens/pkg/pods"
)

// maxDocumentSize bounds local README input.
const maxDocumentSize = 4 << 20

func (c *CLI) parseCommand() *cobra.Command {
	var (
		lang   string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Extract usage examples from a local README",
		Long: `Parse a Markdown document from disk (or stdin with "-") and print the usage
examples and installation snippets it contains. No network access is needed.`,
		Example: `  podlens parse README.md
  curl -s https://raw.githubusercontent.com/Alamofire/Alamofire/master/README.md | podlens parse - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, text, err := readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			svc, err := pods.NewService(pods.Options{Logger: c.Logger})
			if err != nil {
				return err
			}
			defer svc.Close()

			prog := newProgress(c.Logger)
			res := svc.ParseDocument(cmd.Context(), name, text)
			prog.done("Parsed "+name, "examples", res.Stats.Examples)

			res = res.FilterLanguage(lang).Limit(limit)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}

			printStats(out, res)
			if len(res.Examples) == 0 {
				printWarning(out, "No usage examples found")
			} else {
				printExamples(out, res.Examples)
			}
			if !res.Installation.IsEmpty() {
				fmt.Fprintln(out)
				printInstallation(out, res.Installation)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "only show examples in this language")
	registerLangCompletion(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of examples (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// readDocument reads path, or stdin when path is "-".
func readDocument(stdin io.Reader, path string) (name, text string, err error) {
	var r io.Reader
	if path == "-" {
		name, r = "stdin", stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", "", perrors.Wrap(perrors.ErrCodeInvalidInput, err, "open %s", path)
		}
		defer f.Close()
		name, r = filepath.Base(path), f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return "", "", perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read %s", name)
	}
	if len(data) > maxDocumentSize {
		return "", "", perrors.New(perrors.ErrCodeInvalidInput, "%s exceeds %d bytes", name, maxDocumentSize)
	}
	return name, string(data), nil
}
