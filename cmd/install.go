package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/hub"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/template"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

var installForce bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Create the global directory with the built-in components",
	Long: `Create ~/.atreides (or $ATREIDES_HOME) with:

  config.toml            defaults used by init and update
  hooks/<name>/          hook.yaml and script for each built-in hook
  instructions/<name>.md CLAUDE.md sections
  fragments/<name>.yaml  settings.json fragments (one example)

Existing files are kept, so your edits survive a reinstall. Use --force to
restore the built-in versions.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installForce, "force", false, "Overwrite existing files with the built-in versions")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	previous, _ := hub.InstalledVersion(paths)

	res, err := hub.NewInstaller(paths, template.Embedded(), Version).Install(installForce)
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}

	if previous != "" && previous != Version {
		ui.Success(out, "Updated %s from %s to %s", paths.GlobalDir, previous, Version)
	} else {
		ui.Success(out, "Installed atreides %s into %s", Version, paths.GlobalDir)
	}
	ui.Muted(out, "  %d files written, %d existing files kept", len(res.Written), len(res.Kept))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next: run 'atreides init' in a project")
	return nil
}
