package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/podlens/pkg/errors"
	"github.com/matzehuels/podlens/pkg/pods"
)

// lookupOptions are the flags shared by commands that fetch a pod or repo.
type lookupOptions struct {
	repo    string
	refresh bool
	noCache bool
}

func (o *lookupOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.repo, "repo", "", "read a GitHub repository (owner/repo) instead of a pod")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass caches and fetch fresh data")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the HTTP response cache")
}

// lookupArgs accepts a pod name, or no arguments when --repo is set.
func lookupArgs(opts *lookupOptions) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case opts.repo != "" && len(args) > 0:
			return fmt.Errorf("pass either a pod name or --repo, not both")
		case opts.repo == "" && len(args) != 1:
			return fmt.Errorf("requires a pod name (or --repo owner/repo)")
		}
		return nil
	}
}

func (c *CLI) examplesCommand() *cobra.Command {
	var (
		opts   lookupOptions
		lang   string
		limit  int
		asJSON bool
		asList bool
	)

	cmd := &cobra.Command{
		Use:   "examples <pod>",
		Short: "Show usage examples from a pod's README",
		Long: `Fetch a pod from CocoaPods trunk, read the README of its GitHub repository
and print the usage examples found in it.`,
		Example: `  podlens examples Alamofire
  podlens examples SnapKit --lang swift --limit 3
  podlens examples --repo onevcat/Kingfisher --json`,
		Args: lookupArgs(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return perrors.New(perrors.ErrCodeInvalidInput, "--limit must be >= 0")
			}
			res, err := c.lookup(cmd, args, opts)
			if err != nil {
				return err
			}
			res = res.FilterLanguage(lang).Limit(limit)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}

			printResultHeader(out, res)
			if len(res.Examples) == 0 {
				fmt.Fprintln(out)
				printWarning(out, "No usage examples found")
				if !res.Installation.IsEmpty() {
					printNextStep(out, "Installation snippets are available", "podlens install "+res.Name)
				}
				return nil
			}
			if asList {
				fmt.Fprintln(out, exampleTable(res.Examples))
				return nil
			}
			printExamples(out, res.Examples)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&lang, "lang", "", "only show examples in this language (swift, objc, ruby, ...)")
	registerLangCompletion(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of examples (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&asList, "list", false, "print a table of example titles instead of code")

	return cmd
}

func (c *CLI) installCommand() *cobra.Command {
	var (
		opts   lookupOptions
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "install <pod>",
		Short: "Show installation snippets from a pod's README",
		Example: `  podlens install Alamofire
  podlens install --repo ReactiveX/RxSwift --json`,
		Args: lookupArgs(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.lookup(cmd, args, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res.Installation)
			}
			printInstallation(out, res.Installation)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snippets as JSON")

	return cmd
}

// lookup resolves the pod in args, or opts.repo, through a freshly wired
// service while a spinner runs on stderr.
func (c *CLI) lookup(cmd *cobra.Command, args []string, opts lookupOptions) (*pods.Result, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	ctx := withLogger(cmd.Context(), c.Logger)
	svc, cleanup, err := c.newService(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	target := opts.repo
	if target == "" {
		target = args[0]
	}
	return runLookup(ctx, cmd.ErrOrStderr(), target, func(ctx context.Context) (*pods.Result, error) {
		req := pods.Request{Refresh: opts.refresh}
		if opts.repo != "" {
			return svc.LookupRepo(ctx, opts.repo, req)
		}
		return svc.LookupPod(ctx, args[0], req)
	})
}

// runLookup runs fn under a spinner and logs the elapsed time.
func runLookup(ctx context.Context, stderr io.Writer, target string, fn func(context.Context) (*pods.Result, error)) (*pods.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spin := newSpinner(ctx, stderr, "Fetching "+target+"...")
	spin.Start()
	res, err := fn(ctx)
	spin.Stop()

	if err != nil {
		if spin.Cancelled() || errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		return nil, err
	}
	prog.done("Fetched "+target, "examples", res.Stats.Examples, "cached", res.Cached)
	return res, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
