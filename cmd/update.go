package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/picker"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/project"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

var (
	updateDryRun   bool
	updateNoBackup bool
	updateForce    bool
	updateYes      bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-render the project's configuration and merge it in",
	Long: `Re-render the components recorded in .claude/atreides.yaml and apply them:

- settings.json: new hooks and permissions are merged into your file; your
  entries, order and other keys are kept
- hook scripts and CLAUDE.md: replaced when you have not edited them;
  otherwise the new version is written next to the file as
  <file>.atreides-new (use --force to overwrite instead)

Files are backed up to .claude/backups/ before they change unless
--no-backup is given or update.backup is false in config.toml.

Examples:
  atreides update --dry-run   # show a diff of every change
  atreides update --yes       # apply without asking`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Print a diff of the changes without writing")
	updateCmd.Flags().BoolVar(&updateNoBackup, "no-backup", false, "Do not back up files before changing them")
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "Overwrite files you have edited")
	updateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "Apply without asking for confirmation")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	p := e.project
	out := cmd.OutOrStdout()

	if !p.IsInitialized() {
		return errors.NewProjectError(p.Root, "update", errors.ErrNotInitialized)
	}
	if !updateDryRun {
		lock, err := e.lock()
		if err != nil {
			return err
		}
		defer lock.Unlock()
	}

	m, err := e.requireInitialized()
	if err != nil {
		return err
	}

	b, err := e.builder()
	if err != nil {
		return err
	}
	output, err := b.Build(m.Components)
	if err != nil {
		return err
	}
	merged, err := e.reconcile(output.Settings)
	if err != nil {
		return err
	}
	files, err := e.projectFiles(output, merged)
	if err != nil {
		return err
	}

	plan, err := project.NewDeployer(p, m, project.DeployOptions{Force: updateForce, DryRun: true}).Deploy(files)
	if err != nil {
		return err
	}
	changes := countChanges(plan)

	if updateDryRun {
		if err := printDiffs(out, plan); err != nil {
			return err
		}
		printResults(out, plan)
		fmt.Fprintln(out)
		ui.Muted(out, "Dry run - %d file(s) would change", changes)
		return nil
	}

	if changes == 0 {
		ui.Success(out, "Already up to date")
		return nil
	}

	if ui.Interactive() && !updateYes {
		printResults(out, plan)
		ok, err := picker.Confirm(fmt.Sprintf("Apply %d change(s) to %s?", changes, p.Root), "Run with --dry-run to see the diff")
		if errors.Is(err, errors.ErrAborted) || (err == nil && !ok) {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	opts := project.DeployOptions{Force: updateForce, Rollback: store.NewRollback()}
	backups := store.NewBackupManager(p.Root, p.BackupsDir())
	var backup *store.BackupSet
	if e.cfg.Update.Backup && !updateNoBackup {
		backup = backups.Begin("update")
		opts.Backup = backup
	}

	results, err := project.NewDeployer(p, m, opts).Deploy(files)
	if err == nil {
		m.Version = Version
		err = m.Save(p.ManifestPath())
	}
	if err != nil {
		if rbErr := opts.Rollback.Execute(); rbErr != nil {
			slog.Error("rollback incomplete", "error", rbErr)
		}
		return fmt.Errorf("update failed, changes rolled back: %w", err)
	}

	ui.Header(out, "Updated "+p.Root)
	printResults(out, results)

	if backup != nil && backup.ID() != "" {
		ui.Muted(out, "  backed up %d files as %s", len(backup.Files()), backup.ID())
		if keep := e.cfg.Update.KeepBackups; keep > 0 {
			removed, err := backups.Prune(keep)
			if err != nil {
				slog.Warn("failed to prune backups", "error", err)
			} else if len(removed) > 0 {
				slog.Info("pruned backups", "removed", removed)
			}
		}
	}
	return nil
}
