package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for evtclog on stdout.

Load it in the current session:

  Bash:        source <(evtclog completion bash)
  Zsh:         evtclog completion zsh > "${fpath[1]}/_evtclog"
  Fish:        evtclog completion fish | source
  PowerShell:  evtclog completion powershell | Out-String | Invoke-Expression

To make completions permanent, write the script to your shell's completion
directory (for example /etc/bash_completion.d/evtclog, or
~/.config/fish/completions/evtclog.fish) and start a new shell.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		out := cmd.OutOrStdout()

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
