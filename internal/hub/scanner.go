package hub

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
)

// Scanner scans directories for hub items
type Scanner struct{}

// NewScanner creates a new Scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan scans the hub directory and returns a populated Hub
func (s *Scanner) Scan(hubPath string) (*Hub, error) {
	hub := New(hubPath)

	for _, itemType := range config.AllHubItemTypes() {
		itemDir := filepath.Join(hubPath, string(itemType))

		items, err := s.scanItemDir(itemDir, itemType)
		if err != nil {
			if os.IsNotExist(err) {
				// Directory doesn't exist, skip
				continue
			}
			return nil, err
		}

		hub.Items[itemType] = items
	}

	return hub, nil
}

// scanItemDir scans a single item directory. Hooks are directories holding a
// hook.yaml; fragments and instructions are files named by their extension.
func (s *Scanner) scanItemDir(dir string, itemType config.HubItemType) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		switch itemType {
		case config.HubHooks:
			if !entry.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(dir, name, HookManifestFile)); err != nil {
				continue
			}
		case config.HubFragments:
			ext := filepath.Ext(name)
			if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			name = strings.TrimSuffix(name, ext)
		case config.HubInstructions:
			if entry.IsDir() || filepath.Ext(name) != ".md" {
				continue
			}
			name = strings.TrimSuffix(name, ".md")
		}

		items = append(items, Item{
			Name:  name,
			Type:  itemType,
			Path:  filepath.Join(dir, entry.Name()),
			IsDir: entry.IsDir(),
		})
	}

	return items, nil
}
