package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
)

func newProject(t *testing.T) *config.ProjectPaths {
	t.Helper()
	return config.NewProjectPaths(t.TempDir(), "")
}

func readRel(t *testing.T, p *config.ProjectPaths, rel string) string {
	t.Helper()
	data, err := os.ReadFile(p.Abs(rel))
	require.NoError(t, err)
	return string(data)
}

func writeRel(t *testing.T, p *config.ProjectPaths, rel, content string) {
	t.Helper()
	path := p.Abs(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func file(rel, content string) RenderedFile {
	return RenderedFile{Path: rel, Content: []byte(content), Mode: 0644}
}

func actions(results []FileResult) []Action {
	out := make([]Action, 0, len(results))
	for _, r := range results {
		out = append(out, r.Action)
	}
	return out
}

func TestDeployLifecycle(t *testing.T) {
	p := newProject(t)
	m := NewManifest("1.0.0")

	writeRel(t, p, "CLAUDE.md", "# mine")

	script := RenderedFile{Path: ".claude/hooks/guard.sh", Content: []byte("v1"), Mode: 0755}
	res, err := NewDeployer(p, m, DeployOptions{}).Deploy([]RenderedFile{file("CLAUDE.md", "# generated"), script})
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionSkip, ActionCreate}, actions(res))
	assert.Equal(t, "# mine", readRel(t, p, "CLAUDE.md"))
	assert.Equal(t, ProvenanceUserCreated, m.File("CLAUDE.md").Provenance)

	info, err := os.Stat(p.Abs(script.Path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	// unmodified managed file is updated
	script.Content = []byte("v2")
	res, err = NewDeployer(p, m, DeployOptions{}).Deploy([]RenderedFile{script})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, res[0].Action)
	assert.Equal(t, "v1", string(res[0].Old))
	assert.Equal(t, "v2", readRel(t, p, script.Path))

	// same content again is unchanged
	res, err = NewDeployer(p, m, DeployOptions{}).Deploy([]RenderedFile{script})
	require.NoError(t, err)
	assert.Equal(t, ActionUnchanged, res[0].Action)

	// user edit is kept, new version written beside it
	writeRel(t, p, script.Path, "user edit")
	script.Content = []byte("v3")
	res, err = NewDeployer(p, m, DeployOptions{}).Deploy([]RenderedFile{script})
	require.NoError(t, err)
	assert.Equal(t, ActionKeep, res[0].Action)
	assert.Equal(t, "user edit", readRel(t, p, script.Path))
	assert.Equal(t, "v3", readRel(t, p, script.Path+NewVersionSuffix))
	rec := m.File(script.Path)
	assert.Equal(t, ProvenanceUserModified, rec.Provenance)
	assert.Equal(t, HashBytes([]byte("v2")), rec.Hash)

	// force overwrites with a backup
	backups := store.NewBackupManager(p.Root, p.BackupsDir())
	set := backups.Begin("update")
	res, err = NewDeployer(p, m, DeployOptions{Force: true, Backup: set}).Deploy([]RenderedFile{script, file("CLAUDE.md", "# generated")})
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionOverwrite, ActionOverwrite}, actions(res))
	assert.Equal(t, "v3", readRel(t, p, script.Path))
	assert.Equal(t, "# generated", readRel(t, p, "CLAUDE.md"))
	assert.ElementsMatch(t, []string{script.Path, "CLAUDE.md"}, set.Files())
	assert.Equal(t, ProvenanceManaged, m.File("CLAUDE.md").Provenance)
}

func TestDeployMergedFileAlwaysWritten(t *testing.T) {
	p := newProject(t)
	m := NewManifest("1.0.0")
	writeRel(t, p, ".claude/settings.json", `{"model":"opus"}`)

	doc, err := settings.Parse([]byte(`{"model":"opus","hooks":{}}`))
	require.NoError(t, err)
	f, err := SettingsFile(p, doc)
	require.NoError(t, err)
	assert.Equal(t, ".claude/settings.json", f.Path)

	res, err := NewDeployer(p, m, DeployOptions{}).Deploy([]RenderedFile{f})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, res[0].Action)
	assert.True(t, m.File(f.Path).Merged)
}

func TestDeployDryRunWritesNothing(t *testing.T) {
	p := newProject(t)
	m := NewManifest("1.0.0")

	res, err := NewDeployer(p, m, DeployOptions{DryRun: true}).Deploy([]RenderedFile{file("CLAUDE.md", "# x")})
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, res[0].Action)
	assert.True(t, res[0].Action.Changes())
	assert.Empty(t, m.Files)
	_, err = os.Stat(p.Abs("CLAUDE.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeployRollback(t *testing.T) {
	p := newProject(t)
	m := NewManifest("1.0.0")
	writeRel(t, p, "CLAUDE.md", "# old")
	m.SetFile(FileRecord{Path: "CLAUDE.md", Hash: HashBytes([]byte("# old")), Provenance: ProvenanceManaged})

	rb := store.NewRollback()
	_, err := NewDeployer(p, m, DeployOptions{Rollback: rb}).Deploy([]RenderedFile{
		file("CLAUDE.md", "# new"),
		file(".claude/hooks/a.sh", "a"),
	})
	require.NoError(t, err)

	require.NoError(t, rb.Execute())
	assert.Equal(t, "# old", readRel(t, p, "CLAUDE.md"))
	_, err = os.Stat(p.ConfigDir)
	assert.True(t, os.IsNotExist(err), ".claude should be removed by rollback")
}

func TestIgnoreFile(t *testing.T) {
	p := newProject(t)
	f := IgnoreFile(p)
	assert.Equal(t, ".claude/.gitignore", f.Path)
	assert.Contains(t, string(f.Content), "backups/")
	assert.Contains(t, string(f.Content), "*"+NewVersionSuffix)
}
