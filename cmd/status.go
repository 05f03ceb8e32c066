package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/hub"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/project"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show the global directory and project state",
	Long: `Display the state of atreides.

Shows:
- Global directory, installed version and hub item counts
- Project root and git branch
- Selected components and managed file counts`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	ui.Header(out, "=== atreides status ===")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "--- Global ---")
	fmt.Fprintf(out, "Directory: %s\n", e.paths.GlobalDir)
	if !e.paths.IsInstalled() {
		fmt.Fprintln(out, "Installed: no (run 'atreides install')")
	} else {
		v, _ := hub.InstalledVersion(e.paths)
		fmt.Fprintf(out, "Installed: %s\n", v)

		h, err := hub.NewScanner().Scan(e.paths.GlobalDir)
		if err != nil {
			fmt.Fprintf(out, "Error scanning hub: %v\n", err)
		} else {
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, itemType := range config.AllHubItemTypes() {
				fmt.Fprintf(w, "  %s:\t%d\n", itemType, len(h.GetItems(itemType)))
			}
			w.Flush()
		}
	}
	fmt.Fprintln(out)

	p := e.project
	fmt.Fprintln(out, "--- Project ---")
	fmt.Fprintf(out, "Root:   %s\n", p.Root)
	if branch := project.CurrentBranch(p.Root); branch != "" {
		fmt.Fprintf(out, "Branch: %s\n", branch)
	}

	m, err := project.LoadManifest(p.ManifestPath())
	if err != nil {
		fmt.Fprintln(out, "Status: NOT INITIALIZED")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'atreides init' to set up this project")
		return nil
	}

	fmt.Fprintf(out, "Initialized by: %s (%s)\n", m.Version, m.Created.Local().Format("2006-01-02"))
	fmt.Fprintf(out, "Last updated:   %s\n", m.Updated.Local().Format("2006-01-02 15:04"))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  hooks:\t%s\n", joinOrNone(m.Components.Hooks))
	fmt.Fprintf(w, "  permissions:\t%s\n", joinOrNone(m.Components.Permissions))
	fmt.Fprintf(w, "  instructions:\t%s\n", joinOrNone(m.Components.Instructions))
	fmt.Fprintf(w, "  fragments:\t%s\n", joinOrNone(m.Components.Fragments))
	w.Flush()
	fmt.Fprintln(out)

	counts := m.CountByProvenance()
	fmt.Fprintf(out, "Files: %d managed, %d edited by you, %d yours\n",
		counts[project.ProvenanceManaged], counts[project.ProvenanceUserModified], counts[project.ProvenanceUserCreated])

	backups, err := store.NewBackupManager(p.Root, p.BackupsDir()).List()
	if err == nil && len(backups) > 0 {
		fmt.Fprintf(out, "Backups: %d (latest %s)\n", len(backups), backups[0].ID)
	}
	return nil
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
