package project

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
)

// NewVersionSuffix is appended to a user-modified file to hold the version
// atreides would have written
const NewVersionSuffix = ".atreides-new"

// Action is what the deployer did, or would do, with one file
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionUnchanged Action = "unchanged"
	ActionKeep      Action = "keep"      // user-modified, new version written beside it
	ActionSkip      Action = "skip"      // existing file atreides never wrote
	ActionOverwrite Action = "overwrite" // forced over user content
)

// Changes reports whether the action writes the target file
func (a Action) Changes() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionOverwrite
}

// RenderedFile is a file ready to be written into the project
type RenderedFile struct {
	// Path is relative to the project root, with forward slashes
	Path      string
	Content   []byte
	Mode      os.FileMode
	Component string
	// Merged content already carries the user's changes and is always written
	Merged bool
}

// FileResult is the outcome for one file
type FileResult struct {
	Path   string
	Action Action
	Old    []byte
	New    []byte
}

// Backuper saves a file before it is replaced
type Backuper interface {
	Add(path string) error
}

// DeployOptions controls a Deployer
type DeployOptions struct {
	Force  bool
	DryRun bool
	// Backup receives existing files before they change; nil disables backups
	Backup Backuper
	// Rollback records writes so a failed run can be undone; may be nil
	Rollback *store.Rollback
}

// Deployer writes rendered files into a project and keeps the manifest's
// file records current
type Deployer struct {
	paths    *config.ProjectPaths
	manifest *Manifest
	opts     DeployOptions
}

// NewDeployer creates a deployer for the project at paths
func NewDeployer(paths *config.ProjectPaths, manifest *Manifest, opts DeployOptions) *Deployer {
	return &Deployer{paths: paths, manifest: manifest, opts: opts}
}

// SettingsFile returns settings.json holding doc, marked as merged
func SettingsFile(paths *config.ProjectPaths, doc *settings.Document) (RenderedFile, error) {
	data, err := doc.Marshal()
	if err != nil {
		return RenderedFile{}, err
	}
	return RenderedFile{
		Path:      paths.Rel(paths.SettingsPath()),
		Content:   data,
		Mode:      0644,
		Component: "settings",
		Merged:    true,
	}, nil
}

const ignoreContent = `# written by atreides
backups/
.atreides.lock
*.atreides-new
`

// IgnoreFile returns the .gitignore kept in the configuration directory
func IgnoreFile(paths *config.ProjectPaths) RenderedFile {
	return RenderedFile{
		Path:      paths.Rel(filepath.Join(paths.ConfigDir, ".gitignore")),
		Content:   []byte(ignoreContent),
		Mode:      0644,
		Component: "project",
	}
}

// Deploy writes files in order and returns one result per file. It stops at
// the first error.
func (d *Deployer) Deploy(files []RenderedFile) ([]FileResult, error) {
	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		res, err := d.deploy(f)
		if err != nil {
			return results, fmt.Errorf("deploy %s: %w", f.Path, err)
		}
		slog.Debug("deployed file", "path", f.Path, "action", res.Action, "dry_run", d.opts.DryRun)
		results = append(results, res)
	}
	return results, nil
}

func (d *Deployer) deploy(f RenderedFile) (FileResult, error) {
	abs := d.paths.Abs(f.Path)
	res := FileResult{Path: f.Path, New: f.Content}
	mode := f.Mode
	if mode == 0 {
		mode = 0644
	}
	newHash := HashBytes(f.Content)
	managed := FileRecord{Path: f.Path, Hash: newHash, Provenance: ProvenanceManaged, Component: f.Component, Merged: f.Merged}

	info, err := os.Stat(abs)
	if err != nil {
		if !os.IsNotExist(err) {
			return res, err
		}
		res.Action = ActionCreate
		if err := d.write(abs, f.Content, mode, nil, 0); err != nil {
			return res, err
		}
		d.record(managed)
		return res, nil
	}
	if info.IsDir() {
		return res, fmt.Errorf("%s is a directory", abs)
	}

	cur, err := os.ReadFile(abs)
	if err != nil {
		return res, err
	}
	res.Old = cur
	curHash := HashBytes(cur)
	rec := d.manifest.File(f.Path)

	switch {
	case curHash == newHash:
		res.Action = ActionUnchanged
		d.record(managed)
		return res, nil

	case f.Merged:
		res.Action = ActionUpdate

	case rec == nil || rec.Provenance == ProvenanceUserCreated:
		if !d.opts.Force {
			res.Action = ActionSkip
			d.record(FileRecord{Path: f.Path, Hash: curHash, Provenance: ProvenanceUserCreated, Component: f.Component})
			return res, nil
		}
		res.Action = ActionOverwrite

	case curHash == rec.Hash:
		res.Action = ActionUpdate

	default:
		if !d.opts.Force {
			res.Action = ActionKeep
			side := abs + NewVersionSuffix
			prev, _ := os.ReadFile(side)
			if err := d.write(side, f.Content, mode, prev, mode); err != nil {
				return res, err
			}
			d.record(FileRecord{Path: f.Path, Hash: rec.Hash, Provenance: ProvenanceUserModified, Component: f.Component})
			return res, nil
		}
		res.Action = ActionOverwrite
	}

	if err := d.write(abs, f.Content, mode, cur, info.Mode().Perm()); err != nil {
		return res, err
	}
	d.record(managed)
	return res, nil
}

// write replaces path with data. old is the previous content, nil when the
// file did not exist.
func (d *Deployer) write(path string, data []byte, mode os.FileMode, old []byte, oldMode os.FileMode) error {
	if d.opts.DryRun {
		return nil
	}

	dir := filepath.Dir(path)
	if d.opts.Rollback != nil {
		if err := d.opts.Rollback.MkdirAll(dir); err != nil {
			return err
		}
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if old != nil && d.opts.Backup != nil {
		if err := d.opts.Backup.Add(path); err != nil {
			return err
		}
	}

	if err := store.WriteFileAtomic(path, data, mode); err != nil {
		return err
	}

	if d.opts.Rollback != nil {
		if old != nil {
			d.opts.Rollback.AddReplaced(path, old, oldMode)
		} else {
			d.opts.Rollback.AddFile(path)
		}
	}
	return nil
}

func (d *Deployer) record(rec FileRecord) {
	if d.opts.DryRun {
		return
	}
	d.manifest.SetFile(rec)
}
