package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultProjectDir is the per-project configuration directory name
	DefaultProjectDir = ".claude"

	settingsFile     = "settings.json"
	instructionsFile = "CLAUDE.md"
	manifestFile     = "atreides.yaml"
	lockFile         = ".atreides.lock"
)

// Paths holds the resolved global paths
type Paths struct {
	GlobalDir string // ~/.atreides
}

// HubItemType represents the type of item in the global directory
type HubItemType string

const (
	HubHooks        HubItemType = "hooks"
	HubFragments    HubItemType = "fragments"
	HubInstructions HubItemType = "instructions"
)

// AllHubItemTypes returns all hub item types in order
func AllHubItemTypes() []HubItemType {
	return []HubItemType{HubHooks, HubFragments, HubInstructions}
}

// ResolvePaths resolves the global directory from ATREIDES_HOME or the
// user's home directory
func ResolvePaths() (*Paths, error) {
	if dir := os.Getenv("ATREIDES_HOME"); dir != "" {
		return &Paths{GlobalDir: dir}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{GlobalDir: filepath.Join(home, ".atreides")}, nil
}

// HubItemDir returns the directory for a specific hub item type
func (p *Paths) HubItemDir(itemType HubItemType) string {
	return filepath.Join(p.GlobalDir, string(itemType))
}

// HubItemPath returns the full path to a specific hub item
func (p *Paths) HubItemPath(itemType HubItemType, name string) string {
	switch itemType {
	case HubFragments:
		return filepath.Join(p.GlobalDir, string(itemType), name+".yaml")
	case HubInstructions:
		return filepath.Join(p.GlobalDir, string(itemType), name+".md")
	}
	return filepath.Join(p.GlobalDir, string(itemType), name)
}

// ConfigPath returns the path to config.toml
func (p *Paths) ConfigPath() string {
	return filepath.Join(p.GlobalDir, "config.toml")
}

// VersionPath returns the path of the installed version marker
func (p *Paths) VersionPath() string {
	return filepath.Join(p.GlobalDir, "VERSION")
}

// IsInstalled checks if the global directory has been installed
func (p *Paths) IsInstalled() bool {
	info, err := os.Stat(p.VersionPath())
	return err == nil && !info.IsDir()
}

// ProjectPaths holds the paths of one project's configuration
type ProjectPaths struct {
	Root      string // project root
	ConfigDir string // <root>/.claude
}

// NewProjectPaths returns the paths for the project at root. An empty dirName
// uses DefaultProjectDir.
func NewProjectPaths(root, dirName string) *ProjectPaths {
	if dirName == "" {
		dirName = DefaultProjectDir
	}
	return &ProjectPaths{Root: root, ConfigDir: filepath.Join(root, dirName)}
}

// SettingsPath returns <root>/.claude/settings.json
func (p *ProjectPaths) SettingsPath() string {
	return filepath.Join(p.ConfigDir, settingsFile)
}

// InstructionsPath returns <root>/CLAUDE.md
func (p *ProjectPaths) InstructionsPath() string {
	return filepath.Join(p.Root, instructionsFile)
}

// HooksDir returns <root>/.claude/hooks
func (p *ProjectPaths) HooksDir() string {
	return filepath.Join(p.ConfigDir, "hooks")
}

// ManifestPath returns <root>/.claude/atreides.yaml
func (p *ProjectPaths) ManifestPath() string {
	return filepath.Join(p.ConfigDir, manifestFile)
}

// BackupsDir returns <root>/.claude/backups
func (p *ProjectPaths) BackupsDir() string {
	return filepath.Join(p.ConfigDir, "backups")
}

// LockPath returns <root>/.claude/.atreides.lock
func (p *ProjectPaths) LockPath() string {
	return filepath.Join(p.ConfigDir, lockFile)
}

// Rel returns path relative to the project root, with forward slashes
func (p *ProjectPaths) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Abs returns the absolute path of a root-relative, slash-separated path
func (p *ProjectPaths) Abs(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// IsInitialized checks if the project has been initialized
func (p *ProjectPaths) IsInitialized() bool {
	_, err := os.Stat(p.ManifestPath())
	return err == nil
}
