package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/hub"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/picker"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/project"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

var (
	initDryRun bool
	initForce  bool
	initYes    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up Claude Code configuration in the current project",
	Long: `Scaffold the project's configuration from the built-in templates and the
global directory:

  .claude/settings.json   hooks and permissions, merged into an existing file
  .claude/hooks/          hook scripts
  CLAUDE.md               project instructions
  .claude/atreides.yaml   manifest used by update and doctor

Existing files atreides did not write are left alone. On a terminal a picker
selects the components; otherwise (or with --yes) the defaults from
config.toml are used.

Use --force to reinitialize; files it overwrites are backed up first.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "Show what would be written without writing")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize and overwrite files atreides did not write")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Use the default components without prompting")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	p := e.project
	out := cmd.OutOrStdout()

	var m *project.Manifest
	if p.IsInitialized() {
		if !initForce {
			return errors.NewProjectError(p.Root, "init", errors.ErrAlreadyInitialized)
		}
		if m, err = e.requireInitialized(); err != nil {
			slog.Warn("ignoring unreadable manifest", "error", err)
		}
	}
	if m == nil {
		m = project.NewManifest(Version)
	}

	b, err := e.builder()
	if err != nil {
		return err
	}

	sel := defaultComponents(e, b)
	if ui.Interactive() && !initYes {
		sel, err = pickComponents(e, b, sel)
		if errors.Is(err, errors.ErrAborted) {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
		if err != nil {
			return fmt.Errorf("component selection failed: %w", err)
		}
	}

	output, err := b.Build(sel)
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

	ui.Header(out, "Initializing "+p.Root)
	if initDryRun {
		results, err := project.NewDeployer(p, m, project.DeployOptions{Force: initForce, DryRun: true}).Deploy(files)
		if err != nil {
			return err
		}
		printResults(out, results)
		fmt.Fprintln(out)
		ui.Muted(out, "Dry run - no changes made")
		return nil
	}

	rb := store.NewRollback()
	if err := rb.MkdirAll(p.ConfigDir); err != nil {
		return err
	}
	lock, err := e.lock()
	if err != nil {
		rb.Execute()
		return err
	}
	defer lock.Unlock()

	opts := project.DeployOptions{Force: initForce, Rollback: rb}
	var backup *store.BackupSet
	if initForce {
		backup = store.NewBackupManager(p.Root, p.BackupsDir()).Begin("init")
		opts.Backup = backup
	}

	m.Components = sel
	m.Version = Version
	results, err := project.NewDeployer(p, m, opts).Deploy(files)
	if err == nil {
		err = m.Save(p.ManifestPath())
	}
	if err != nil {
		if rbErr := rb.Execute(); rbErr != nil {
			slog.Error("rollback incomplete", "error", rbErr)
		}
		return fmt.Errorf("init failed, changes rolled back: %w", err)
	}
	rb.Clear()

	printResults(out, results)
	if backup != nil && backup.ID() != "" {
		ui.Muted(out, "  backed up %d files as %s", len(backup.Files()), backup.ID())
	}

	fmt.Fprintln(out)
	ui.Success(out, "Project initialized")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Review CLAUDE.md and .claude/settings.json")
	fmt.Fprintln(out, "  2. Commit .claude/ and CLAUDE.md")
	fmt.Fprintln(out, "  3. Run 'atreides update' after upgrading atreides or editing ~/.atreides")
	return nil
}

// defaultComponents returns the catalog defaults, replaced per kind by the
// lists in config.toml when the global directory is installed
func defaultComponents(e *env, b *project.Builder) project.Components {
	catalog := b.Catalog()
	sel := project.Components{
		Hooks:        catalog.DefaultHooks(),
		Permissions:  catalog.DefaultPermissions(),
		Instructions: catalog.DefaultInstructions(),
	}
	if !e.paths.IsInstalled() {
		return sel
	}

	d := e.cfg.Defaults
	if d.Hooks != nil {
		sel.Hooks = d.Hooks
	}
	if d.Permissions != nil {
		sel.Permissions = d.Permissions
	}
	if d.Instructions != nil {
		sel.Instructions = d.Instructions
	}
	sel.Fragments = d.Fragments
	return sel
}

// pickComponents shows the picker with every known component, sel checked
func pickComponents(e *env, b *project.Builder, sel project.Components) (project.Components, error) {
	catalog := b.Catalog()

	var hookOrder, presetOrder, instructionOrder, fragmentOrder []string
	descs := map[string]map[string]string{
		"hooks":        {},
		"permissions":  {},
		"instructions": {},
		"fragments":    {},
	}
	for _, h := range catalog.Hooks {
		hookOrder = mergeNames(hookOrder, []string{h.Name}, descs["hooks"])
		descs["hooks"][h.Name] = h.Description
	}
	for _, p := range catalog.Permissions {
		presetOrder = mergeNames(presetOrder, []string{p.Name}, descs["permissions"])
		descs["permissions"][p.Name] = p.Description
	}
	for _, i := range catalog.Instructions {
		instructionOrder = mergeNames(instructionOrder, []string{i.Name}, descs["instructions"])
		descs["instructions"][i.Name] = i.Description
	}

	if e.paths.IsInstalled() {
		h, err := hub.NewScanner().Scan(e.paths.GlobalDir)
		if err != nil {
			return sel, err
		}
		hookOrder = mergeNames(hookOrder, h.Names(config.HubHooks), descs["hooks"])
		instructionOrder = mergeNames(instructionOrder, h.Names(config.HubInstructions), descs["instructions"])
		fragmentOrder = mergeNames(fragmentOrder, h.Names(config.HubFragments), descs["fragments"])
	}

	tabs := []picker.Tab{
		{Name: "hooks", Items: pickerItems(hookOrder, descs["hooks"], sel.Hooks)},
		{Name: "permissions", Items: pickerItems(presetOrder, descs["permissions"], sel.Permissions)},
		{Name: "instructions", Items: pickerItems(instructionOrder, descs["instructions"], sel.Instructions)},
	}
	if len(fragmentOrder) > 0 {
		tabs = append(tabs, picker.Tab{Name: "fragments", Items: pickerItems(fragmentOrder, descs["fragments"], sel.Fragments)})
	}

	chosen, err := picker.Run("Select components", tabs)
	if err != nil {
		return sel, err
	}
	return project.Components{
		Hooks:        chosen["hooks"],
		Permissions:  chosen["permissions"],
		Instructions: chosen["instructions"],
		Fragments:    chosen["fragments"],
	}, nil
}

// mergeNames appends names not already in order, registering them in descs
func mergeNames(order, names []string, descs map[string]string) []string {
	for _, n := range names {
		if _, ok := descs[n]; ok {
			continue
		}
		descs[n] = ""
		order = append(order, n)
	}
	return order
}

func pickerItems(order []string, descs map[string]string, selected []string) []picker.Item {
	on := make(map[string]bool, len(selected))
	for _, s := range selected {
		on[s] = true
	}
	items := make([]picker.Item, 0, len(order))
	for _, name := range order {
		items = append(items, picker.Item{
			ID:          name,
			Label:       name,
			Description: descs[name],
			Selected:    on[name],
		})
	}
	return items
}
