// Package project manages the assistant configuration inside one project:
// the manifest of deployed files, deployment, drift detection and building
// the files from templates and the global directory.
package project

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// FindRoot returns the root of the git work tree containing start, or start
// itself when it is not inside a repository.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return abs, nil
		}
		return "", fmt.Errorf("opening repository at %s: %w", abs, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		// bare repository
		return abs, nil
	}
	return worktree.Filesystem.Root(), nil
}

// CurrentBranch returns the checked-out branch of the repository at root.
// It is empty outside a repository or on a detached HEAD.
func CurrentBranch(root string) string {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return ""
	}
	return head.Name().Short()
}
