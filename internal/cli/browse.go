package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (c *CLI) browseCommand() *cobra.Command {
	var (
		opts lookupOptions
		lang string
	)

	cmd := &cobra.Command{
		Use:   "browse <pod>",
		Short: "Browse a pod's usage examples interactively",
		Example: `  podlens browse Alamofire
  podlens browse --repo SnapKit/SnapKit --lang swift`,
		Args: lookupArgs(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.lookup(cmd, args, opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewExampleListModel(res.FilterLanguage(lang)),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&lang, "lang", "", "only show examples in this language")
	registerLangCompletion(cmd)

	return cmd
}
