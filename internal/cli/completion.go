package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command, which emits the shell
// completion script for the requested shell on stdout.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for quadpress on stdout.

To load completions:

Bash:
  $ source <(quadpress completion bash)

  # To load completions in every session, execute once:
  # Linux:
  $ quadpress completion bash > /etc/bash_completion.d/quadpress
  # macOS:
  $ quadpress completion bash > $(brew --prefix)/etc/bash_completion.d/quadpress

Zsh:
  # If completion is not already enabled in your environment, execute
  # the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions in every session, execute once:
  $ quadpress completion zsh > "${fpath[1]}/_quadpress"

  # A new shell is needed for this setup to take effect.

Fish:
  $ quadpress completion fish | source

  # To load completions in every session, execute once:
  $ quadpress completion fish > ~/.config/fish/completions/quadpress.fish

PowerShell:
  PS> quadpress completion powershell | Out-String | Invoke-Expression

  # To load completions in every new session, run:
  PS> quadpress completion powershell > quadpress.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
