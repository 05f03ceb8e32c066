package template

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
)

func TestRendererRender(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.tmpl":      {Data: []byte("# {{.ProjectName}}\nVersion: {{.Version}}\n")},
		"missing.tmpl": {Data: []byte("Hello {{.Name}}, {{.Role}}")},
		"nested.tmpl":  {Data: []byte("{{.Body}}")},
		"broken.tmpl":  {Data: []byte("{{if}}")},
	}
	r := NewRenderer(fsys)

	t.Run("success", func(t *testing.T) {
		out, err := r.Render("ok.tmpl", map[string]string{"ProjectName": "atreides", "Version": "1.0.0"})
		require.NoError(t, err)
		assert.Equal(t, "# atreides\nVersion: 1.0.0\n", string(out))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := r.Render("missing.tmpl", map[string]string{"Name": "x"})
		assert.ErrorIs(t, err, ErrMissingTemplateKey)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := r.Render("nope.tmpl", nil)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := r.Render("broken.tmpl", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "template parse")
	})

	t.Run("template action left in output", func(t *testing.T) {
		_, err := r.Render("nested.tmpl", map[string]string{"Body": "see {{.Other}}"})
		assert.ErrorIs(t, err, ErrUnexpandedToken)
	})

	t.Run("shell variables allowed in text", func(t *testing.T) {
		out, err := r.Render("nested.tmpl", map[string]string{"Body": "echo $HOME ${PATH}"})
		require.NoError(t, err)
		assert.Equal(t, "echo $HOME ${PATH}", string(out))
	})
}

func TestRendererRenderJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"s.json.tmpl":   {Data: []byte(`{"name":"{{jsonEscape .Name}}","hooks":{{toJSON .Hooks}},"dir":"{{posixPath .Dir}}"}`)},
		"bad.json.tmpl": {Data: []byte(`{"name":{{.Name}}}`)},
		"var.json.tmpl": {Data: []byte(`{"cmd":"{{.Name}}"}`)},
		"env.json.tmpl": {Data: []byte(`{"cmd":"${PROJECT_ROOT}/a.sh","dir":"$CLAUDE_PROJECT_DIR"}`)},
	}
	r := NewRenderer(fsys)

	t.Run("escapes and embeds", func(t *testing.T) {
		hooks := jsondoc.NewObject()
		hooks.Set("Stop", []any{"a<b"})
		obj, err := r.RenderJSON("s.json.tmpl", map[string]any{
			"Name":  `quote " and \ slash`,
			"Hooks": hooks,
			"Dir":   `C:\proj\.claude`,
		})
		require.NoError(t, err)

		name, _ := obj.Get("name")
		assert.Equal(t, `quote " and \ slash`, name)
		dir, _ := obj.Get("dir")
		assert.Equal(t, "C:/proj/.claude", dir)
		out, err := jsondoc.Compact(obj)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"hooks":{"Stop":["a<b"]}`)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := r.RenderJSON("bad.json.tmpl", map[string]string{"Name": "x"})
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})

	t.Run("runtime tokens pass", func(t *testing.T) {
		_, err := r.RenderJSON("var.json.tmpl", map[string]string{"Name": "$CLAUDE_PROJECT_DIR/.claude/hooks/a.sh $ARGUMENTS"})
		assert.NoError(t, err)
	})

	t.Run("other variables in the template rejected", func(t *testing.T) {
		_, err := r.RenderJSON("env.json.tmpl", nil)
		assert.True(t, errors.Is(err, ErrUnexpandedToken), "got %v", err)
	})

	t.Run("dollar signs in data pass", func(t *testing.T) {
		obj, err := r.RenderJSON("s.json.tmpl", map[string]any{
			"Name":  "$HOME_APP",
			"Hooks": jsondoc.NewObject(),
			"Dir":   "/src/${FOO}/.claude",
		})
		require.NoError(t, err)
		name, _ := obj.Get("name")
		assert.Equal(t, "$HOME_APP", name)
	})
}

func TestEmbeddedTemplates(t *testing.T) {
	fsys := Embedded()
	catalog, err := LoadCatalog(fsys)
	require.NoError(t, err)

	assert.Contains(t, catalog.DefaultHooks(), "guard-bash")
	assert.NotEmpty(t, catalog.DefaultPermissions())
	assert.NotEmpty(t, catalog.DefaultInstructions())

	hooks := jsondoc.NewObject()
	hooks.Set("PreToolUse", []any{})
	perms := jsondoc.NewObject()
	perms.Set("allow", []any{"Read"})

	r := NewRenderer(fsys)
	obj, err := r.RenderJSON(SettingsTemplate, Data{
		ProjectName: `my "app"`,
		ConfigDir:   ".claude",
		Hooks:       hooks,
		Permissions: perms,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"$schema", "permissions", "hooks", "env"}, obj.Keys())

	md, err := r.Render(InstructionsTemplate, Data{
		ProjectName:  "app",
		Version:      "1.2.3",
		Instructions: []Instruction{{Name: "workflow", Title: "Workflow", Body: "- be careful"}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "# app\n"))
	assert.Contains(t, string(md), "## Workflow\n\n- be careful\n")
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		files   fstest.MapFS
	}{
		{"malformed yaml", "hooks: [", nil},
		{"duplicate hook", "hooks:\n- {name: a, event: Stop, script: a.sh}\n- {name: a, event: Stop, script: a.sh}\n",
			fstest.MapFS{"hooks/a.sh": {}}},
		{"missing script", "hooks:\n- {name: a, event: Stop, script: a.sh}\n", nil},
		{"hook without event", "hooks:\n- {name: a, script: a.sh}\n", fstest.MapFS{"hooks/a.sh": {}}},
		{"unnamed preset", "permissions:\n- {allow: [Read]}\n", nil},
		{"missing instruction", "instructions:\n- {name: w, title: W, file: w.md}\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{CatalogFile: {Data: []byte(tt.catalog)}}
			for k, v := range tt.files {
				fsys[k] = v
			}
			_, err := LoadCatalog(fsys)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestCatalogLookup(t *testing.T) {
	catalog, err := LoadCatalog(Embedded())
	require.NoError(t, err)

	h, ok := catalog.Hook("format-on-edit")
	require.True(t, ok)
	assert.Equal(t, "Edit|Write|MultiEdit", h.Matcher)
	assert.Equal(t, 30, h.EffectiveTimeout())

	_, ok = catalog.Preset("nope")
	assert.False(t, ok)

	in, ok := catalog.Instruction("git")
	require.True(t, ok)
	assert.Equal(t, "git.md", in.File)
}
