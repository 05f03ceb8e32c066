package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotInstalled       = errors.New("atreides not installed: run 'atreides install' first")
	ErrNotInitialized     = errors.New("project not initialized: run 'atreides init' first")
	ErrAlreadyInitialized = errors.New("project already initialized")
	ErrLocked             = errors.New("another atreides command is running in this project")
	ErrBackupNotFound     = errors.New("backup not found")
	ErrHubItemNotFound    = errors.New("hub item not found")
	ErrInvalidManifest    = errors.New("invalid project manifest")
	ErrUnknownComponent   = errors.New("unknown component")
	ErrAborted            = errors.New("aborted")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ProjectError wraps errors with project context
type ProjectError struct {
	Root string
	Op   string
	Err  error
}

func (e *ProjectError) Error() string {
	return fmt.Sprintf("project %s: %s: %v", e.Root, e.Op, e.Err)
}

func (e *ProjectError) Unwrap() error {
	return e.Err
}

// NewProjectError creates a new project error
func NewProjectError(root, op string, err error) *ProjectError {
	return &ProjectError{Root: root, Op: op, Err: err}
}

// HubError wraps errors with hub item context
type HubError struct {
	ItemType string
	ItemName string
	Op       string
	Err      error
}

func (e *HubError) Error() string {
	return fmt.Sprintf("hub %s/%s: %s: %v", e.ItemType, e.ItemName, e.Op, e.Err)
}

func (e *HubError) Unwrap() error {
	return e.Err
}

// NewHubError creates a new hub error
func NewHubError(itemType, itemName, op string, err error) *HubError {
	return &HubError{ItemType: itemType, ItemName: itemName, Op: op, Err: err}
}

// PathError wraps errors with path context
type PathError struct {
	Path string
	Op   string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new path error
func NewPathError(path, op string, err error) *PathError {
	return &PathError{Path: path, Op: op, Err: err}
}

// DriftError represents managed files changed outside atreides
type DriftError struct {
	Root   string
	Issues []string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("project %s has %d drift issues", e.Root, len(e.Issues))
}

// NewDriftError creates a new drift error
func NewDriftError(root string, issues []string) *DriftError {
	return &DriftError{Root: root, Issues: issues}
}
