package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
)

func TestManifestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".claude", "atreides.yaml")

	m := NewManifest("1.0.0")
	m.Components = Components{Hooks: []string{"guard-bash"}, Permissions: []string{"read-only"}}
	m.SetFile(FileRecord{Path: "CLAUDE.md", Hash: HashBytes([]byte("a")), Provenance: ProvenanceManaged})
	m.SetFile(FileRecord{Path: ".claude/hooks/guard-bash.sh", Hash: "h1", Provenance: ProvenanceManaged})
	m.SetFile(FileRecord{Path: ".claude/hooks/guard-bash.sh", Hash: "h2", Provenance: ProvenanceUserModified})
	require.NoError(t, m.Save(path))

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", loaded.Version)
	assert.Equal(t, []string{"guard-bash"}, loaded.Components.Hooks)
	require.Len(t, loaded.Files, 2)
	assert.Equal(t, ".claude/hooks/guard-bash.sh", loaded.Files[0].Path, "files are sorted by path")
	assert.Equal(t, ProvenanceUserModified, loaded.File(".claude/hooks/guard-bash.sh").Provenance)
	assert.Equal(t, map[Provenance]int{ProvenanceManaged: 1, ProvenanceUserModified: 1}, loaded.CountByProvenance())

	assert.True(t, loaded.RemoveFile("CLAUDE.md"))
	assert.False(t, loaded.RemoveFile("CLAUDE.md"))
	assert.Nil(t, loaded.File("CLAUDE.md"))
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "absent.yaml"))
	assert.True(t, errors.Is(err, errors.ErrNotInitialized), "got %v", err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("files: {"), 0644))
	_, err = LoadManifest(bad)
	assert.True(t, errors.Is(err, errors.ErrInvalidManifest), "got %v", err)

	noHash := filepath.Join(dir, "nohash.yaml")
	require.NoError(t, os.WriteFile(noHash, []byte("version: 1\nfiles:\n  - path: CLAUDE.md\n"), 0644))
	_, err = LoadManifest(noHash)
	assert.True(t, errors.Is(err, errors.ErrInvalidManifest), "got %v", err)
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashBytes(nil))
}
