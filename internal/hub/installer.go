package hub

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/template"
)

const exampleFragment = `name: cleanup-period-days
description: Days to keep chat transcripts (example fragment, add it to defaults.fragments to use it)
key: cleanupPeriodDays
value: 30
`

// InstallResult lists the files an install wrote and the ones it kept
type InstallResult struct {
	Written []string
	Kept    []string
}

// Installer creates the global directory from the built-in assets
type Installer struct {
	paths   *config.Paths
	assets  fs.FS
	version string
}

// NewInstaller returns an installer writing to paths from assets, the
// template filesystem holding catalog.yaml
func NewInstaller(paths *config.Paths, assets fs.FS, version string) *Installer {
	return &Installer{paths: paths, assets: assets, version: version}
}

// Install writes the default config, the built-in hook components,
// instruction snippets and an example fragment. Existing files are kept
// unless force is set. The version marker is written last.
func (i *Installer) Install(force bool) (*InstallResult, error) {
	catalog, err := template.LoadCatalog(i.assets)
	if err != nil {
		return nil, err
	}

	for _, itemType := range config.AllHubItemTypes() {
		if err := os.MkdirAll(i.paths.HubItemDir(itemType), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", itemType, err)
		}
	}

	res := &InstallResult{}

	cfg := config.DefaultConfig()
	cfg.Defaults = config.DefaultsConfig{
		Hooks:        catalog.DefaultHooks(),
		Permissions:  catalog.DefaultPermissions(),
		Instructions: catalog.DefaultInstructions(),
	}
	cfgData, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}
	if err := i.write(res, i.paths.ConfigPath(), cfgData, 0644, force); err != nil {
		return nil, err
	}

	for _, hook := range catalog.Hooks {
		if err := i.installHook(res, hook, force); err != nil {
			return nil, err
		}
	}

	for _, snippet := range catalog.Instructions {
		data, err := fs.ReadFile(i.assets, path.Join(template.InstructionsDir, snippet.File))
		if err != nil {
			return nil, err
		}
		dest := i.paths.HubItemPath(config.HubInstructions, snippet.Name)
		if err := i.write(res, dest, data, 0644, force); err != nil {
			return nil, err
		}
	}

	fragmentPath := i.paths.HubItemPath(config.HubFragments, "cleanup-period-days")
	if err := i.write(res, fragmentPath, []byte(exampleFragment), 0644, force); err != nil {
		return nil, err
	}

	if err := os.WriteFile(i.paths.VersionPath(), []byte(i.version+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("failed to write version marker: %w", err)
	}
	res.Written = append(res.Written, i.paths.VersionPath())

	return res, nil
}

func (i *Installer) installHook(res *InstallResult, hook config.HookConfig, force bool) error {
	dir := filepath.Join(i.paths.HubItemDir(config.HubHooks), hook.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	manifest, err := yaml.Marshal(hook)
	if err != nil {
		return fmt.Errorf("failed to marshal hook %s: %w", hook.Name, err)
	}
	if err := i.write(res, filepath.Join(dir, HookManifestFile), manifest, 0644, force); err != nil {
		return err
	}

	script, err := fs.ReadFile(i.assets, path.Join(template.HooksDir, hook.Script))
	if err != nil {
		return err
	}
	return i.write(res, filepath.Join(dir, hook.Script), script, 0755, force)
}

func (i *Installer) write(res *InstallResult, dest string, data []byte, perm os.FileMode, force bool) error {
	if !force {
		if _, err := os.Stat(dest); err == nil {
			slog.Debug("keeping existing file", "path", dest)
			res.Kept = append(res.Kept, dest)
			return nil
		}
	}
	if err := os.WriteFile(dest, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := os.Chmod(dest, perm); err != nil {
		return err
	}
	res.Written = append(res.Written, dest)
	return nil
}

// InstalledVersion returns the version recorded by the last install
func InstalledVersion(paths *config.Paths) (string, error) {
	data, err := os.ReadFile(paths.VersionPath())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
