package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/podlens/pkg/readme"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for podlens and write it to stdout.

  $ source <(podlens completion bash)
  $ podlens completion zsh > "${fpath[1]}/_podlens"
  $ podlens completion fish > ~/.config/fish/completions/podlens.fish
  PS> podlens completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// registerLangCompletion offers known example languages for --lang.
func registerLangCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("lang", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return readme.Languages(), cobra.ShellCompDirectiveNoFileComp
	})
}
