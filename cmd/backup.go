package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/picker"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

var (
	backupKeep       int
	backupRestoreYes bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "List, restore and prune backups in .claude/backups",
}

var backupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List backup sets, newest first",
	Args:    cobra.NoArgs,
	RunE:    runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Copy the files of a backup set back into the project",
	Long: `Copy the files of a backup set back into the project.

The current versions of those files are backed up first, so a restore can be
undone by restoring the set it creates.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest backup sets",
	Args:  cobra.NoArgs,
	RunE:  runBackupPrune,
}

func init() {
	backupRestoreCmd.Flags().BoolVarP(&backupRestoreYes, "yes", "y", false, "Restore without asking for confirmation")
	backupPruneCmd.Flags().IntVar(&backupKeep, "keep", 0, "Number of backup sets to keep (default: update.keep_backups)")
	backupCmd.AddCommand(backupListCmd, backupRestoreCmd, backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}

func backupManager(e *env) *store.BackupManager {
	return store.NewBackupManager(e.project.Root, e.project.BackupsDir())
}

func runBackupList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	infos, err := backupManager(e).List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No backups")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tREASON\tFILES")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", info.ID, info.Created.Local().Format("2006-01-02 15:04:05"), info.Reason, len(info.Files))
	}
	return w.Flush()
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	id := args[0]
	out := cmd.OutOrStdout()
	mgr := backupManager(e)

	infos, err := mgr.List()
	if err != nil {
		return err
	}
	var files []string
	found := false
	for _, info := range infos {
		if info.ID == id {
			files, found = info.Files, true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", errors.ErrBackupNotFound, id)
	}

	if ui.Interactive() && !backupRestoreYes {
		ok, err := picker.Confirm(fmt.Sprintf("Restore %d file(s) from %s?", len(files), id), "Current versions are backed up first")
		if errors.Is(err, errors.ErrAborted) || (err == nil && !ok) {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	lock, err := e.lock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	before := mgr.Begin("before restore of " + id)
	for _, rel := range files {
		if err := before.Add(e.project.Abs(rel)); err != nil {
			return err
		}
	}

	restored, err := mgr.Restore(id)
	if err != nil {
		return err
	}
	for _, rel := range restored {
		ui.Success(out, "%s", filepath.FromSlash(rel))
	}
	if before.ID() != "" {
		ui.Muted(out, "  previous versions saved as %s", before.ID())
	}
	return nil
}

func runBackupPrune(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	keep := backupKeep
	if !cmd.Flags().Changed("keep") {
		keep = e.cfg.Update.KeepBackups
	}
	if keep <= 0 {
		return fmt.Errorf("--keep must be at least 1")
	}

	removed, err := backupManager(e).Prune(keep)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, id := range removed {
		ui.Muted(out, "removed %s", id)
	}
	ui.Success(out, "%d backup set(s) removed, %d kept at most", len(removed), keep)
	return nil
}
