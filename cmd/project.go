package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/project"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/template"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

// env is what most commands need: the global paths, the loaded config and
// the project the command works on
type env struct {
	paths   *config.Paths
	cfg     *config.Config
	project *config.ProjectPaths
}

func loadEnv() (*env, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(paths.GlobalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	start := projectFlag
	if start == "" {
		start = "."
	}
	root, err := project.FindRoot(start)
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved project", "root", root, "global_dir", paths.GlobalDir)

	return &env{
		paths:   paths,
		cfg:     cfg,
		project: config.NewProjectPaths(root, cfg.Project.Dir),
	}, nil
}

func (e *env) builder() (*project.Builder, error) {
	return project.NewBuilder(e.paths, e.project, template.Embedded(), Version)
}

func (e *env) lock() (*store.Lock, error) {
	l, err := store.AcquireLock(e.project.LockPath())
	if err != nil {
		return nil, errors.NewProjectError(e.project.Root, "lock", err)
	}
	return l, nil
}

func (e *env) requireInitialized() (*project.Manifest, error) {
	m, err := project.LoadManifest(e.project.ManifestPath())
	if err != nil {
		return nil, errors.NewProjectError(e.project.Root, "load manifest", err)
	}
	return m, nil
}

// reconcile merges the generated settings into the project's settings.json
// and logs what the merge left alone
func (e *env) reconcile(generated *settings.Document) (*settings.Document, error) {
	existing, err := store.ReadDocument(e.project.SettingsPath())
	if err != nil {
		return nil, err
	}

	merged, report := settings.NewReconciler(settings.Options{
		AdoptNewKeys: e.cfg.Update.AdoptNewKeys,
	}).Reconcile(generated, existing)
	logReport(report)
	return merged, nil
}

func logReport(report *settings.Report) {
	if report.Empty() {
		return
	}
	for _, s := range report.Skipped {
		slog.Warn("left existing value unchanged", "pointer", s.Pointer, "reason", s.Reason)
	}
	for _, d := range report.Dropped {
		slog.Warn("dropped reserved key", "source", d.Source, "pointer", d.Pointer)
	}
}

// projectFiles is everything a build deploys, settings.json last
func (e *env) projectFiles(out *project.Output, merged *settings.Document) ([]project.RenderedFile, error) {
	settingsFile, err := project.SettingsFile(e.project, merged)
	if err != nil {
		return nil, err
	}
	files := append([]project.RenderedFile{}, out.Files...)
	files = append(files, project.IgnoreFile(e.project), settingsFile)
	return files, nil
}

func printResults(w io.Writer, results []project.FileResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "  %s\t%s\n", actionLabel(r.Action), r.Path)
	}
	tw.Flush()

	for _, r := range results {
		if r.Action == project.ActionKeep {
			ui.Warn(w, "%s has local changes; new version written to %s%s", r.Path, r.Path, project.NewVersionSuffix)
		}
	}
}

func actionLabel(a project.Action) string {
	switch a {
	case project.ActionCreate, project.ActionUpdate:
		return ui.SuccessStyle.Render(string(a))
	case project.ActionKeep, project.ActionOverwrite:
		return ui.WarnStyle.Render(string(a))
	}
	return ui.MutedStyle.Render(string(a))
}

func countChanges(results []project.FileResult) int {
	n := 0
	for _, r := range results {
		if r.Action.Changes() || r.Action == project.ActionKeep {
			n++
		}
	}
	return n
}

// printDiffs writes a unified diff for every file the results would change
func printDiffs(w io.Writer, results []project.FileResult) error {
	for _, r := range results {
		if !r.Action.Changes() && r.Action != project.ActionKeep {
			continue
		}
		to := r.Path
		if r.Action == project.ActionKeep {
			to += project.NewVersionSuffix
		}
		text, err := unifiedDiff(r.Path, to, r.Old, r.New)
		if err != nil {
			return err
		}
		fmt.Fprint(w, text)
	}
	return nil
}

func unifiedDiff(from, to string, old, new []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(new)),
		FromFile: "a/" + from,
		ToFile:   "b/" + to,
		Context:  3,
	})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
