package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/hub"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/project"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the global directory and the project",
	Long: `Check for common atreides issues.

Checks:
- Is the global directory installed and current?
- Does config.toml load?
- Is the project initialized, and does its manifest load?
- Were managed files changed, removed or added outside atreides?
- Is .claude/settings.json valid, and do its hook scripts exist?

Exits non-zero when drift or an invalid settings file is found.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ui.Header(out, "=== atreides doctor ===")
	fmt.Fprintln(out)

	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}

	fmt.Fprint(out, "Checking global directory... ")
	if !paths.IsInstalled() {
		fmt.Fprintln(out, ui.WarnStyle.Render("WARN"))
		fmt.Fprintln(out, "  → not installed; run 'atreides install' to use hub components")
	} else if v, _ := hub.InstalledVersion(paths); v != Version {
		fmt.Fprintln(out, ui.WarnStyle.Render("WARN"))
		fmt.Fprintf(out, "  → installed by %s, running %s; run 'atreides install'\n", v, Version)
	} else {
		fmt.Fprintln(out, ui.SuccessStyle.Render("OK"))
	}

	fmt.Fprint(out, "Checking config.toml... ")
	if _, err := config.LoadConfig(paths.GlobalDir); err != nil {
		fail(out, err.Error())
		return err
	}
	fmt.Fprintln(out, ui.SuccessStyle.Render("OK"))

	e, err := loadEnv()
	if err != nil {
		return err
	}
	p := e.project

	fmt.Fprint(out, "Checking project... ")
	m, err := project.LoadManifest(p.ManifestPath())
	if err != nil {
		if errors.Is(err, errors.ErrNotInitialized) {
			fmt.Fprintln(out, ui.WarnStyle.Render("WARN"))
			fmt.Fprintf(out, "  → %s is not initialized; run 'atreides init'\n", p.Root)
			return nil
		}
		fail(out, err.Error())
		return err
	}
	fmt.Fprintf(out, "%s → %s\n", ui.SuccessStyle.Render("OK"), p.Root)

	var problems error

	fmt.Fprint(out, "Checking managed files... ")
	report, err := project.NewDriftDetector(p).Detect(m)
	if err != nil {
		return err
	}
	if report.HasDrift() {
		fmt.Fprintf(out, "%s (%d issues)\n", ui.WarnStyle.Render("DRIFT"), len(report.Issues))
		for _, line := range report.Strings() {
			fmt.Fprintf(out, "  → %s\n", line)
		}
		fmt.Fprintln(out, "  → review the changes, then run 'atreides update' (--force to discard local edits)")
		problems = errors.NewDriftError(p.Root, report.Strings())
	} else {
		fmt.Fprintln(out, ui.SuccessStyle.Render("OK"))
	}

	fmt.Fprint(out, "Checking settings.json... ")
	doc, err := store.ReadDocument(p.SettingsPath())
	if err != nil {
		fail(out, err.Error())
		return err
	}
	issues := settings.Validate(doc, settings.ValidateOptions{ProjectDir: p.Root, CheckScripts: true})
	switch {
	case settings.HasErrors(issues):
		fail(out, fmt.Sprintf("%d issue(s)", len(issues)))
		if problems == nil {
			problems = fmt.Errorf("%s is invalid", p.SettingsPath())
		}
	case len(issues) > 0:
		fmt.Fprintf(out, "%s (%d)\n", ui.WarnStyle.Render("WARN"), len(issues))
	default:
		fmt.Fprintln(out, ui.SuccessStyle.Render("OK"))
	}
	for _, issue := range issues {
		fmt.Fprintf(out, "  → %s\n", issue)
	}

	fmt.Fprintln(out)
	if problems == nil {
		ui.Success(out, "All checks passed!")
	}
	return problems
}

func fail(w io.Writer, msg string) {
	fmt.Fprintln(w, ui.ErrorStyle.Render("FAIL"))
	fmt.Fprintf(w, "  → %s\n", msg)
}
