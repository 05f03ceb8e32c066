package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/hub"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/picker"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

var (
	mergeOutput       string
	mergeAdoptNewKeys bool
	mergeDiff         bool
	extractForce      bool
	extractAll        bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Work with settings.json files",
}

var settingsMergeCmd = &cobra.Command{
	Use:   "merge NEW EXISTING",
	Short: "Merge the hooks and permissions of NEW into EXISTING",
	Long: `Merge the hooks and permissions of NEW into EXISTING and print the result.

Hook entries are merged per event and matcher without duplicates; permission
rules are unioned. Everything else in EXISTING is kept as it is. Keys such as
__proto__ are dropped from both inputs. A missing EXISTING counts as empty.

Examples:
  atreides settings merge new.json .claude/settings.json
  atreides settings merge new.json .claude/settings.json -o .claude/settings.json
  atreides settings merge new.json .claude/settings.json --diff`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsMerge,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check [FILE]",
	Short: "Validate a settings file",
	Long: `Validate a settings file (default: the project's .claude/settings.json).

Reports malformed hook entries and permission lists, reserved key names,
unknown hook events and hook scripts that do not exist. Exits non-zero when
an error is found; warnings alone pass.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsCheck,
}

var settingsExtractCmd = &cobra.Command{
	Use:   "extract [FILE]",
	Short: "Save top-level settings as fragments in the global directory",
	Long: `Split a settings file (default: the project's .claude/settings.json) into
one fragment per top-level key and save them to ~/.atreides/fragments/.
Hooks are skipped; they are managed as hook components.

Fragments can then be selected by 'atreides init' in other projects.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsExtract,
}

func init() {
	settingsMergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Write the result to FILE (backed up to FILE.bak first)")
	settingsMergeCmd.Flags().BoolVar(&mergeAdoptNewKeys, "adopt-new-keys", false, "Also copy top-level keys EXISTING does not have")
	settingsMergeCmd.Flags().BoolVar(&mergeDiff, "diff", false, "Print a unified diff against EXISTING instead of the result")
	settingsExtractCmd.Flags().BoolVar(&extractForce, "force", false, "Replace existing fragments")
	settingsExtractCmd.Flags().BoolVar(&extractAll, "all", false, "Extract every key without prompting")

	settingsCmd.AddCommand(settingsMergeCmd, settingsCheckCmd, settingsExtractCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsMerge(cmd *cobra.Command, args []string) error {
	newPath, existingPath := args[0], args[1]
	if !fileExists(newPath) {
		return errors.NewPathError(newPath, "read", os.ErrNotExist)
	}

	newDoc, err := store.ReadDocument(newPath)
	if err != nil {
		return err
	}
	existing, err := store.ReadDocument(existingPath)
	if err != nil {
		return err
	}

	merged, report := settings.NewReconciler(settings.Options{AdoptNewKeys: mergeAdoptNewKeys}).Reconcile(newDoc, existing)
	logReport(report)

	if mergeOutput != "" {
		if err := store.WriteDocument(mergeOutput, merged, true); err != nil {
			return err
		}
		ui.Success(cmd.ErrOrStderr(), "Wrote %s", mergeOutput)
		return nil
	}

	data, err := merged.Marshal()
	if err != nil {
		return err
	}
	if !mergeDiff {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	var before []byte
	if fileExists(existingPath) {
		if before, err = existing.Marshal(); err != nil {
			return err
		}
	}
	text, err := unifiedDiff(existingPath, existingPath, before, data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	path := e.project.SettingsPath()
	if len(args) == 1 {
		path = args[0]
	}
	if !fileExists(path) {
		return errors.NewPathError(path, "read", os.ErrNotExist)
	}

	doc, err := store.ReadDocument(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	issues := settings.Validate(doc, settings.ValidateOptions{ProjectDir: e.project.Root, CheckScripts: true})
	for _, issue := range issues {
		if issue.Severity == settings.SeverityError {
			ui.Fail(out, "%s", issue)
		} else {
			ui.Warn(out, "%s", issue)
		}
	}

	if settings.HasErrors(issues) {
		return fmt.Errorf("%s is invalid", path)
	}
	ui.Success(out, "%s: %d warning(s)", path, len(issues))
	return nil
}

func runSettingsExtract(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	if !e.paths.IsInstalled() {
		return errors.ErrNotInstalled
	}
	path := e.project.SettingsPath()
	if len(args) == 1 {
		path = args[0]
	}
	if !fileExists(path) {
		return errors.NewPathError(path, "read", os.ErrNotExist)
	}

	doc, err := store.ReadDocument(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fragments := hub.ExtractFragments(doc)
	if len(fragments) == 0 {
		fmt.Fprintln(out, "No settings to extract")
		return nil
	}

	if !extractAll && ui.Interactive() {
		items := make([]picker.Item, 0, len(fragments))
		for _, f := range fragments {
			items = append(items, picker.Item{ID: f.Name, Label: f.Name, Description: f.Description, Selected: true})
		}
		chosen, err := picker.Run("Select settings to extract", []picker.Tab{{Name: "fragments", Items: items}})
		if errors.Is(err, errors.ErrAborted) {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		keep := make(map[string]bool)
		for _, name := range chosen["fragments"] {
			keep[name] = true
		}
		var selected []*hub.Fragment
		for _, f := range fragments {
			if keep[f.Name] {
				selected = append(selected, f)
			}
		}
		fragments = selected
	}

	written, err := hub.SaveFragments(e.paths.GlobalDir, fragments, extractForce)
	if err != nil {
		return err
	}
	for _, name := range written {
		ui.Success(out, "fragments/%s.yaml", name)
	}
	if skipped := len(fragments) - len(written); skipped > 0 {
		ui.Muted(out, "  %d existing fragment(s) kept; use --force to replace", skipped)
	}
	return nil
}
