package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for atreides.

Besides commands and flags, the scripts complete backup IDs for
'backup restore' and JSON files for the settings commands.

  bash:       source <(atreides completion bash)
  zsh:        atreides completion zsh > "${fpath[1]}/_atreides"
  fish:       atreides completion fish | source
  powershell: atreides completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		}
		return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	},
}

func init() {
	backupRestoreCmd.ValidArgsFunction = completeBackupIDs
	settingsMergeCmd.ValidArgsFunction = completeSettingsFiles
	settingsCheckCmd.ValidArgsFunction = completeSettingsFiles
	settingsExtractCmd.ValidArgsFunction = completeSettingsFiles
	rootCmd.AddCommand(completionCmd)
}

// completeBackupIDs offers the project's backup sets, newest first, described
// by their reason.
func completeBackupIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	e, err := loadEnv()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	infos, err := backupManager(e).List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var ids []string
	for _, info := range infos {
		if strings.HasPrefix(info.ID, toComplete) {
			ids = append(ids, info.ID+"\t"+info.Reason)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func completeSettingsFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	limit := 1
	if cmd == settingsMergeCmd {
		limit = 2
	}
	if len(args) >= limit {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
