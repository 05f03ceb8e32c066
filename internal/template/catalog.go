package template

import (
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
)

const (
	// CatalogFile is the catalog's name inside the template filesystem.
	CatalogFile = "catalog.yaml"

	// SettingsTemplate renders the generated settings.json.
	SettingsTemplate = "settings.json.tmpl"

	// InstructionsTemplate renders the generated CLAUDE.md.
	InstructionsTemplate = "CLAUDE.md.tmpl"

	// HooksDir holds the hook scripts inside the template filesystem.
	HooksDir = "hooks"

	// InstructionsDir holds the instruction snippets.
	InstructionsDir = "instructions"
)

// PermissionPreset is a named group of permission rules.
type PermissionPreset struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Allow       []string `yaml:"allow,omitempty"`
	Deny        []string `yaml:"deny,omitempty"`
	Ask         []string `yaml:"ask,omitempty"`
	Default     bool     `yaml:"default,omitempty"`
}

// Rules returns the preset's rules for the allow, deny or ask list
func (p PermissionPreset) Rules(list string) []string {
	switch list {
	case "allow":
		return p.Allow
	case "deny":
		return p.Deny
	case "ask":
		return p.Ask
	}
	return nil
}

// InstructionSnippet is a CLAUDE.md section shipped with the binary.
type InstructionSnippet struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	File        string `yaml:"file"`
	Default     bool   `yaml:"default,omitempty"`
}

// Catalog lists the built-in components a project can select.
type Catalog struct {
	Hooks        []config.HookConfig  `yaml:"hooks"`
	Permissions  []PermissionPreset   `yaml:"permissions"`
	Instructions []InstructionSnippet `yaml:"instructions"`
}

// LoadCatalog reads and validates catalog.yaml from fsys.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.validate(fsys); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate(fsys fs.FS) error {
	seen := make(map[string]bool)
	unique := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("%w: %s without a name", ErrInvalidCatalog, kind)
		}
		if seen[kind+"/"+name] {
			return fmt.Errorf("%w: duplicate %s %q", ErrInvalidCatalog, kind, name)
		}
		seen[kind+"/"+name] = true
		return nil
	}

	for _, h := range c.Hooks {
		if err := unique("hook", h.Name); err != nil {
			return err
		}
		if h.Event == "" || h.Script == "" {
			return fmt.Errorf("%w: hook %q needs an event and a script", ErrInvalidCatalog, h.Name)
		}
		if _, err := fs.Stat(fsys, path.Join(HooksDir, h.Script)); err != nil {
			return fmt.Errorf("%w: hook %q: script %s not found", ErrInvalidCatalog, h.Name, h.Script)
		}
	}
	for _, p := range c.Permissions {
		if err := unique("permission preset", p.Name); err != nil {
			return err
		}
	}
	for _, in := range c.Instructions {
		if err := unique("instruction", in.Name); err != nil {
			return err
		}
		if _, err := fs.Stat(fsys, path.Join(InstructionsDir, in.File)); err != nil {
			return fmt.Errorf("%w: instruction %q: file %s not found", ErrInvalidCatalog, in.Name, in.File)
		}
	}
	return nil
}

// Hook returns the hook component called name.
func (c *Catalog) Hook(name string) (config.HookConfig, bool) {
	for _, h := range c.Hooks {
		if h.Name == name {
			return h, true
		}
	}
	return config.HookConfig{}, false
}

// Preset returns the permission preset called name.
func (c *Catalog) Preset(name string) (PermissionPreset, bool) {
	for _, p := range c.Permissions {
		if p.Name == name {
			return p, true
		}
	}
	return PermissionPreset{}, false
}

// Instruction returns the instruction snippet called name.
func (c *Catalog) Instruction(name string) (InstructionSnippet, bool) {
	for _, in := range c.Instructions {
		if in.Name == name {
			return in, true
		}
	}
	return InstructionSnippet{}, false
}

// DefaultHooks returns the names of hooks selected by default.
func (c *Catalog) DefaultHooks() []string {
	var names []string
	for _, h := range c.Hooks {
		if h.Default {
			names = append(names, h.Name)
		}
	}
	return names
}

// DefaultPermissions returns the names of presets selected by default.
func (c *Catalog) DefaultPermissions() []string {
	var names []string
	for _, p := range c.Permissions {
		if p.Default {
			names = append(names, p.Name)
		}
	}
	return names
}

// DefaultInstructions returns the names of snippets selected by default.
func (c *Catalog) DefaultInstructions() []string {
	var names []string
	for _, in := range c.Instructions {
		if in.Default {
			names = append(names, in.Name)
		}
	}
	return names
}
