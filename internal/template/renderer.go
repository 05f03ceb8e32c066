// Package template renders the files atreides writes into a project.
package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"text/template"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
)

var funcMap = template.FuncMap{
	// jsonEscape escapes s for use inside a JSON string literal.
	"jsonEscape": func(s string) string {
		b, err := json.Marshal(s)
		if err != nil {
			return s
		}
		return string(b[1 : len(b)-1])
	},
	// toJSON embeds any value as a compact JSON literal.
	"toJSON": func(v any) (string, error) {
		b, err := jsondoc.Compact(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	},
	"posixPath": func(s string) string {
		return strings.ReplaceAll(s, "\\", "/")
	},
}

// templateTokenPattern matches template actions that survived rendering.
var templateTokenPattern = regexp.MustCompile(`\{\{-?\s*\.?[A-Za-z_][A-Za-z0-9_.]*\s*-?\}\}`)

// actionPattern matches template actions in a template source.
var actionPattern = regexp.MustCompile(`(?s)\{\{.*?\}\}`)

// variableTokenPattern matches shell-style variables in a JSON template.
var variableTokenPattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}|\$[A-Z_][A-Z0-9_]*`)

// runtimeTokens are expanded by the assistant when it runs a hook.
var runtimeTokens = []string{
	"${CLAUDE_PROJECT_DIR}",
	"$CLAUDE_PROJECT_DIR",
	"$ARGUMENTS",
}

// Renderer renders text/template files from a filesystem in strict mode.
type Renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by fsys.
func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{fsys: fsys}
}

// Render parses the named template and executes it with data. A key missing
// from data fails with ErrMissingTemplateKey; a template action left in the
// output fails with ErrUnexpandedToken.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return r.render(name, content, data)
}

func (r *Renderer) render(name string, content []byte, data any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(funcMap).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}

	out := buf.Bytes()
	if loc := templateTokenPattern.Find(out); loc != nil {
		return nil, fmt.Errorf("%w: found %q in %s", ErrUnexpandedToken, loc, name)
	}
	return out, nil
}

// RenderJSON renders the named template and parses the result as a JSON
// object. Shell variables written in the template text, other than the
// assistant's runtime tokens, are rejected; values supplied through data are
// not checked.
func (r *Renderer) RenderJSON(name string, data any) (*jsondoc.Object, error) {
	content, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	text := actionPattern.ReplaceAllString(string(content), "")
	for _, tok := range runtimeTokens {
		text = strings.ReplaceAll(text, tok, "")
	}
	if loc := variableTokenPattern.FindString(text); loc != "" {
		return nil, fmt.Errorf("%w: found %q in %s", ErrUnexpandedToken, loc, name)
	}

	out, err := r.render(name, content, data)
	if err != nil {
		return nil, err
	}
	obj, err := jsondoc.ParseObject(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, name, err)
	}
	return obj, nil
}
