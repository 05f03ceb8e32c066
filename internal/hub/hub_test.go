package hub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestHub(t *testing.T) {
	h := New("/test/hub")

	if h.Path != "/test/hub" {
		t.Errorf("Path = %q, want %q", h.Path, "/test/hub")
	}

	if h.ItemCount() != 0 {
		t.Errorf("ItemCount() = %d, want 0", h.ItemCount())
	}
}

func TestHubItems(t *testing.T) {
	h := New("/test/hub")

	h.Items[config.HubFragments] = []Item{
		{Name: "env", Type: config.HubFragments, Path: "/test/hub/fragments/env.yaml"},
		{Name: "model", Type: config.HubFragments, Path: "/test/hub/fragments/model.yaml"},
	}

	if h.ItemCount() != 2 {
		t.Errorf("ItemCount() = %d, want 2", h.ItemCount())
	}

	if !h.HasItem(config.HubFragments, "env") {
		t.Error("HasItem(fragments, env) = false, want true")
	}

	if h.HasItem(config.HubFragments, "nonexistent") {
		t.Error("HasItem(fragments, nonexistent) = true, want false")
	}

	names := h.Names(config.HubFragments)
	if len(names) != 2 || names[0] != "env" || names[1] != "model" {
		t.Errorf("Names() = %v", names)
	}
}

func TestScanner(t *testing.T) {
	hubDir := t.TempDir()

	writeFile(t, filepath.Join(hubDir, "hooks", "guard", HookManifestFile), "name: guard\nevent: PreToolUse\nscript: guard.sh\n")
	writeFile(t, filepath.Join(hubDir, "hooks", "guard", "guard.sh"), "#!/bin/sh\n")
	writeFile(t, filepath.Join(hubDir, "hooks", "no-manifest", "x.sh"), "#!/bin/sh\n")
	writeFile(t, filepath.Join(hubDir, "hooks", "loose.sh"), "#!/bin/sh\n")
	writeFile(t, filepath.Join(hubDir, "fragments", "env.yaml"), "key: env\n")
	writeFile(t, filepath.Join(hubDir, "fragments", "model.yml"), "key: model\n")
	writeFile(t, filepath.Join(hubDir, "fragments", "notes.txt"), "ignored\n")
	writeFile(t, filepath.Join(hubDir, "instructions", "style.md"), "- tabs\n")
	writeFile(t, filepath.Join(hubDir, "instructions", ".draft.md"), "hidden\n")

	h, err := NewScanner().Scan(hubDir)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	counts := h.ItemCountByType()
	want := map[config.HubItemType]int{
		config.HubHooks:        1,
		config.HubFragments:    2,
		config.HubInstructions: 1,
	}
	for itemType, n := range want {
		if counts[itemType] != n {
			t.Errorf("%s count = %d, want %d", itemType, counts[itemType], n)
		}
	}

	hook := h.GetItem(config.HubHooks, "guard")
	if hook == nil || !hook.IsDir {
		t.Errorf("hook guard = %+v, want a directory item", hook)
	}
	if !h.HasItem(config.HubFragments, "model") {
		t.Error("fragment model.yml should be listed as model")
	}
	if !h.HasItem(config.HubInstructions, "style") {
		t.Error("instruction style.md should be listed as style")
	}
}

func TestScannerMissingDirectories(t *testing.T) {
	h, err := NewScanner().Scan(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if h.ItemCount() != 0 {
		t.Errorf("ItemCount() = %d, want 0", h.ItemCount())
	}
}

func TestGetHookManifest(t *testing.T) {
	hubDir := t.TempDir()
	writeFile(t, filepath.Join(hubDir, "hooks", "fmt", HookManifestFile),
		"event: PostToolUse\nmatcher: Edit|Write\nscript: fmt.sh\ninterpreter: bash\ntimeout: 20\n")
	writeFile(t, filepath.Join(hubDir, "hooks", "broken", HookManifestFile), "description: no event\n")

	m, err := GetHookManifest(hubDir, "fmt")
	if err != nil {
		t.Fatalf("GetHookManifest() error: %v", err)
	}
	if m.Name != "fmt" || m.Event != config.HookPostToolUse || m.Matcher != "Edit|Write" || m.EffectiveTimeout() != 20 {
		t.Errorf("manifest = %+v", m)
	}
	if got := HookScriptPath(hubDir, m); got != filepath.Join(hubDir, "hooks", "fmt", "fmt.sh") {
		t.Errorf("HookScriptPath() = %q", got)
	}

	if _, err := GetHookManifest(hubDir, "broken"); err == nil {
		t.Error("expected error for manifest without event")
	}

	_, err = GetHookManifest(hubDir, "absent")
	if !errors.Is(err, errors.ErrHubItemNotFound) {
		t.Errorf("err = %v, want ErrHubItemNotFound", err)
	}
}

func TestReadInstruction(t *testing.T) {
	hubDir := t.TempDir()
	writeFile(t, filepath.Join(hubDir, "instructions", "style.md"), "- tabs\n")

	body, err := ReadInstruction(hubDir, "style")
	if err != nil || body != "- tabs\n" {
		t.Errorf("ReadInstruction() = %q, %v", body, err)
	}
	if _, err := ReadInstruction(hubDir, "absent"); !errors.Is(err, errors.ErrHubItemNotFound) {
		t.Errorf("err = %v, want ErrHubItemNotFound", err)
	}
}
