package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "hook.sh")

	require.NoError(t, WriteFileAtomic(path, []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, WriteFileAtomic(path, []byte("#!/bin/bash\n"), 0755))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()

	doc, err := ReadDocument(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Object().Len())

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"hooks":`), 0644))
	_, err = ReadDocument(bad)
	var pe *errors.PathError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, bad, pe.Path)

	arr := filepath.Join(dir, "array.json")
	require.NoError(t, os.WriteFile(arr, []byte(`[]`), 0644))
	_, err = ReadDocument(arr)
	assert.Error(t, err)
}

func TestWriteDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model":"opus"}`), 0600))

	doc, err := settings.Parse([]byte(`{"b":1,"a":2}`))
	require.NoError(t, err)
	require.NoError(t, WriteDocument(path, doc, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": 2\n}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	backup, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, `{"model":"opus"}`, string(backup))
}

func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".claude", ".atreides.lock")

	first, err := AcquireLock(path)
	require.NoError(t, err)

	_, err = AcquireLock(path)
	assert.True(t, errors.Is(err, errors.ErrLocked), "got %v", err)

	require.NoError(t, first.Unlock())
	require.NoError(t, first.Unlock())

	again, err := AcquireLock(path)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}

func newTestManager(t *testing.T) (*BackupManager, string, *time.Time) {
	t.Helper()
	root := t.TempDir()
	m := NewBackupManager(root, filepath.Join(root, ".claude", "backups"))
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	return m, root, &clock
}

func writeProjectFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBackupAndRestore(t *testing.T) {
	m, root, _ := newTestManager(t)
	settingsPath := writeProjectFile(t, root, ".claude/settings.json", "v1")
	claudePath := writeProjectFile(t, root, "CLAUDE.md", "# v1")

	set := m.Begin("update")
	require.NoError(t, set.Add(settingsPath))
	require.NoError(t, set.Add(settingsPath))
	require.NoError(t, set.Add(claudePath))
	require.NoError(t, set.Add(filepath.Join(root, "missing.txt")))
	assert.Equal(t, "20260301_120000", set.ID())
	assert.Equal(t, []string{".claude/settings.json", "CLAUDE.md"}, set.Files())

	outside := filepath.Join(filepath.Dir(root), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))
	assert.Error(t, set.Add(outside))

	writeProjectFile(t, root, ".claude/settings.json", "v2")
	writeProjectFile(t, root, "CLAUDE.md", "# v2")

	restored, err := m.Restore(set.ID())
	require.NoError(t, err)
	assert.Len(t, restored, 2)

	data, _ := os.ReadFile(settingsPath)
	assert.Equal(t, "v1", string(data))
	data, _ = os.ReadFile(claudePath)
	assert.Equal(t, "# v1", string(data))

	_, err = m.Restore("19990101_000000")
	assert.True(t, errors.Is(err, errors.ErrBackupNotFound))
	_, err = m.Restore("../escape")
	assert.True(t, errors.Is(err, errors.ErrBackupNotFound))
}

func TestBackupSetWithoutFilesWritesNothing(t *testing.T) {
	m, _, _ := newTestManager(t)
	set := m.Begin("noop")
	assert.Empty(t, set.ID())

	infos, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestListAndPruneKeepNewest(t *testing.T) {
	m, root, clock := newTestManager(t)
	path := writeProjectFile(t, root, ".claude/settings.json", "{}")

	var ids []string
	for i := 0; i < 4; i++ {
		set := m.Begin("update")
		require.NoError(t, set.Add(path))
		ids = append(ids, set.ID())
		*clock = clock.Add(time.Hour)
	}

	*clock = clock.Add(-time.Hour)
	same := m.Begin("same second")
	require.NoError(t, same.Add(path))
	assert.Equal(t, ids[3]+"-2", same.ID())

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, 5)
	assert.Equal(t, same.ID(), infos[0].ID)
	assert.Equal(t, ids[0], infos[4].ID)

	removed, err := m.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, removed)

	infos, err = m.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, same.ID(), infos[0].ID)
	assert.Equal(t, ids[3], infos[1].ID)

	removed, err = m.Prune(0)
	require.NoError(t, err)
	assert.Empty(t, removed)
}
