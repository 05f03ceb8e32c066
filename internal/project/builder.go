package project

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/hub"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/template"
)

// Output is everything a build produces for one project
type Output struct {
	// Settings is the generated settings.json, before reconciliation
	Settings *settings.Document
	// Files are the instructions and hook scripts
	Files []RenderedFile
}

// Builder renders a project's files from the built-in templates and the
// global directory
type Builder struct {
	global   *config.Paths
	project  *config.ProjectPaths
	assets   fs.FS
	catalog  *template.Catalog
	renderer *template.Renderer
	reader   hub.FragmentReader
	version  string
}

// NewBuilder loads the catalog from assets. global may be nil when the global
// directory is not installed; hub components are then unavailable.
func NewBuilder(global *config.Paths, project *config.ProjectPaths, assets fs.FS, version string) (*Builder, error) {
	catalog, err := template.LoadCatalog(assets)
	if err != nil {
		return nil, err
	}
	if global != nil && !global.IsInstalled() {
		global = nil
	}
	return &Builder{
		global:   global,
		project:  project,
		assets:   assets,
		catalog:  catalog,
		renderer: template.NewRenderer(assets),
		reader:   hub.NewFragmentReader(),
		version:  version,
	}, nil
}

// Catalog returns the built-in component catalog
func (b *Builder) Catalog() *template.Catalog {
	return b.catalog
}

// Build renders settings.json, CLAUDE.md and the hook scripts for the
// selected components. Hub components take precedence over built-in ones of
// the same name.
func (b *Builder) Build(sel Components) (*Output, error) {
	out := &Output{}

	hooks := settings.NewDocument()
	for _, name := range sel.Hooks {
		file, hook, err := b.hook(name)
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, file)

		command := `"$CLAUDE_PROJECT_DIR"/` + file.Path
		if hook.Interpreter != "" {
			command = hook.Interpreter + " " + command
		}
		hooks.AddHook(hook.Event, hook.Matcher, settings.NewHookAction(command, hook.EffectiveTimeout()))
	}

	perms, err := b.permissions(sel.Permissions)
	if err != nil {
		return nil, err
	}

	instructions, err := b.instructions(sel.Instructions)
	if err != nil {
		return nil, err
	}

	hooksValue, ok := hooks.Get("hooks")
	if !ok {
		hooksValue = jsondoc.NewObject()
	}
	data := template.Data{
		ProjectName:  filepath.Base(b.project.Root),
		ConfigDir:    b.project.Rel(b.project.ConfigDir),
		Version:      b.version,
		Hooks:        hooksValue,
		Permissions:  perms,
		Instructions: instructions,
	}

	obj, err := b.renderer.RenderJSON(template.SettingsTemplate, data)
	if err != nil {
		return nil, err
	}
	if len(sel.Fragments) > 0 {
		if b.global == nil {
			return nil, fmt.Errorf("fragments %v: %w", sel.Fragments, errors.ErrNotInstalled)
		}
		obj, err = hub.MergeFragmentsFromHub(b.reader, b.global.GlobalDir, obj, sel.Fragments)
		if err != nil {
			return nil, err
		}
	}
	out.Settings = settings.FromObject(obj)

	md, err := b.renderer.Render(template.InstructionsTemplate, data)
	if err != nil {
		return nil, err
	}
	out.Files = append([]RenderedFile{{
		Path:      b.project.Rel(b.project.InstructionsPath()),
		Content:   md,
		Mode:      0644,
		Component: "instructions",
	}}, out.Files...)

	return out, nil
}

// hook resolves a hook component and its script
func (b *Builder) hook(name string) (RenderedFile, config.HookConfig, error) {
	var hook config.HookConfig
	var script []byte

	if b.global != nil {
		m, err := hub.GetHookManifest(b.global.GlobalDir, name)
		switch {
		case err == nil:
			data, err := os.ReadFile(hub.HookScriptPath(b.global.GlobalDir, m))
			if err != nil {
				return RenderedFile{}, hook, err
			}
			hook, script = *m, data
		case !errors.Is(err, errors.ErrHubItemNotFound):
			return RenderedFile{}, hook, err
		}
	}

	if script == nil {
		h, ok := b.catalog.Hook(name)
		if !ok {
			return RenderedFile{}, hook, fmt.Errorf("hook %q: %w", name, errors.ErrUnknownComponent)
		}
		data, err := fs.ReadFile(b.assets, path.Join(template.HooksDir, h.Script))
		if err != nil {
			return RenderedFile{}, hook, err
		}
		hook, script = h, data
	}

	return RenderedFile{
		Path:      b.project.Rel(filepath.Join(b.project.HooksDir(), filepath.Base(hook.Script))),
		Content:   script,
		Mode:      0755,
		Component: "hook:" + hook.Name,
	}, hook, nil
}

// permissions unions the selected presets in order
func (b *Builder) permissions(names []string) (*jsondoc.Object, error) {
	perms := jsondoc.NewObject()
	for _, name := range names {
		preset, ok := b.catalog.Preset(name)
		if !ok {
			return nil, fmt.Errorf("permission preset %q: %w", name, errors.ErrUnknownComponent)
		}
		layer := jsondoc.NewObject()
		for _, list := range settings.PermissionLists {
			if rules := preset.Rules(list); len(rules) > 0 {
				layer.Set(list, toArray(rules))
			}
		}
		perms, _ = settings.MergePermissions(perms, layer)
	}
	return perms, nil
}

// instructions resolves CLAUDE.md sections from the hub or the catalog
func (b *Builder) instructions(names []string) ([]template.Instruction, error) {
	var out []template.Instruction
	for _, name := range names {
		snippet, inCatalog := b.catalog.Instruction(name)
		title := snippet.Title
		if title == "" {
			title = titleFromName(name)
		}

		if b.global != nil {
			body, err := hub.ReadInstruction(b.global.GlobalDir, name)
			if err == nil {
				out = append(out, template.Instruction{Name: name, Title: title, Body: strings.TrimSpace(body)})
				continue
			}
			if !errors.Is(err, errors.ErrHubItemNotFound) {
				return nil, err
			}
		}

		if !inCatalog {
			return nil, fmt.Errorf("instruction %q: %w", name, errors.ErrUnknownComponent)
		}
		body, err := fs.ReadFile(b.assets, path.Join(template.InstructionsDir, snippet.File))
		if err != nil {
			return nil, err
		}
		out = append(out, template.Instruction{Name: name, Title: title, Body: strings.TrimSpace(string(body))})
	}
	return out, nil
}

func toArray(rules []string) []any {
	out := make([]any, len(rules))
	for i, r := range rules {
		out[i] = r
	}
	return out
}

func titleFromName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
