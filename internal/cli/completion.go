package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for roomeditor.

Bash:
  $ source <(roomeditor completion bash)

Zsh:
  $ roomeditor completion zsh > "${fpath[1]}/_roomeditor"

Fish:
  $ roomeditor completion fish > ~/.config/fish/completions/roomeditor.fish

PowerShell:
  PS> roomeditor completion powershell | Out-String | Invoke-Expression

Template ids and saved layout ids are completed from the configured catalog
and layout storage.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
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

	return cmd
}

// completeTemplateIDs completes catalog template ids.
func (c *CLI) completeTemplateIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, err := c.catalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, t := range cat.List("") {
		if strings.HasPrefix(t.ID, toComplete) {
			ids = append(ids, t.ID+"\t"+t.Name)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeLayoutIDs completes saved layout ids. Only the first argument is
// completed.
func (c *CLI) completeLayoutIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
	defer cancel()

	mgr, err := c.openLayouts(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer mgr.Close()

	metas, err := mgr.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, m := range metas {
		if strings.HasPrefix(m.ID, toComplete) {
			ids = append(ids, m.ID+"\t"+m.Name)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
