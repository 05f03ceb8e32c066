package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestProjectErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("update: %w", NewProjectError("/work/app", "lock", ErrLocked))

	if !Is(err, ErrLocked) {
		t.Error("Is(err, ErrLocked) = false, want true")
	}

	var pe *ProjectError
	if !As(err, &pe) {
		t.Fatal("As(err, *ProjectError) = false")
	}
	if pe.Root != "/work/app" || pe.Op != "lock" {
		t.Errorf("ProjectError = %+v", pe)
	}

	want := "update: project /work/app: lock: " + ErrLocked.Error()
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPathErrorUnwrap(t *testing.T) {
	err := NewPathError("/tmp/settings.json", "read", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("PathError should unwrap to fs.ErrNotExist")
	}
	if err.Error() != "read: /tmp/settings.json: file does not exist" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestHubErrorMessage(t *testing.T) {
	err := NewHubError("hooks", "guard", "load", ErrHubItemNotFound)
	if err.Error() != "hub hooks/guard: load: hub item not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !Is(err, ErrHubItemNotFound) {
		t.Error("HubError should unwrap to ErrHubItemNotFound")
	}
}

func TestDriftError(t *testing.T) {
	err := NewDriftError("/work/app", []string{"a", "b"})
	if err.Error() != "project /work/app has 2 drift issues" {
		t.Errorf("Error() = %q", err.Error())
	}
}
