package store

import (
	"os"
	"path/filepath"
)

type replaced struct {
	path string
	data []byte
	mode os.FileMode
}

// Rollback tracks changes for rollback on failure
type Rollback struct {
	dirs     []string   // directories created
	files    []string   // files created
	replaced []replaced // previous content of overwritten files
}

// NewRollback creates a new rollback tracker
func NewRollback() *Rollback {
	return &Rollback{}
}

// AddDir records a directory that was created
func (r *Rollback) AddDir(path string) {
	r.dirs = append(r.dirs, path)
}

// AddFile records a file that was created
func (r *Rollback) AddFile(path string) {
	r.files = append(r.files, path)
}

// AddReplaced records the content a file had before it was overwritten
func (r *Rollback) AddReplaced(path string, data []byte, mode os.FileMode) {
	r.replaced = append(r.replaced, replaced{path: path, data: data, mode: mode})
}

// MkdirAll creates path and its parents, recording the topmost directory
// that did not exist yet
func (r *Rollback) MkdirAll(path string) error {
	first := ""
	for p := path; ; p = filepath.Dir(p) {
		if _, err := os.Stat(p); err == nil {
			break
		}
		first = p
		if filepath.Dir(p) == p {
			break
		}
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	if first != "" {
		r.AddDir(first)
	}
	return nil
}

// Execute performs rollback, undoing changes in reverse order
func (r *Rollback) Execute() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}

	for i := len(r.replaced) - 1; i >= 0; i-- {
		rep := r.replaced[i]
		keep(WriteFileAtomic(rep.path, rep.data, rep.mode))
	}

	for i := len(r.files) - 1; i >= 0; i-- {
		keep(os.Remove(r.files[i]))
	}

	for i := len(r.dirs) - 1; i >= 0; i-- {
		keep(os.RemoveAll(r.dirs[i]))
	}

	return firstErr
}

// Clear resets the rollback tracker
func (r *Rollback) Clear() {
	r.dirs = nil
	r.files = nil
	r.replaced = nil
}
