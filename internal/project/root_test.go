package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realPath(t *testing.T, p string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return r
}

func TestFindRootInsideRepository(t *testing.T) {
	root := realPath(t, t.TempDir())
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)

	sub := filepath.Join(root, "pkg", "deep")
	require.NoError(t, os.MkdirAll(sub, 0755))

	got, err := FindRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, root, realPath(t, got))
}

func TestFindRootOutsideRepository(t *testing.T) {
	dir := realPath(t, t.TempDir())

	got, err := FindRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.Empty(t, CurrentBranch(dir))
}
