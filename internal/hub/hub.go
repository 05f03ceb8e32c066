// Package hub reads and writes the global installation directory.
package hub

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
)

// HookManifestFile is the manifest inside each hook directory
const HookManifestFile = "hook.yaml"

// Hub represents the global directory of reusable components
type Hub struct {
	Path  string
	Items map[config.HubItemType][]Item
}

// Item represents a single hub item (hook, fragment or instruction)
type Item struct {
	Name  string
	Type  config.HubItemType
	Path  string
	IsDir bool
}

// New creates a new Hub instance
func New(path string) *Hub {
	return &Hub{
		Path:  path,
		Items: make(map[config.HubItemType][]Item),
	}
}

// GetItems returns items of a specific type
func (h *Hub) GetItems(itemType config.HubItemType) []Item {
	return h.Items[itemType]
}

// GetItem returns a specific item by type and name
func (h *Hub) GetItem(itemType config.HubItemType, name string) *Item {
	for _, item := range h.Items[itemType] {
		if item.Name == name {
			return &item
		}
	}
	return nil
}

// HasItem checks if an item exists in the hub
func (h *Hub) HasItem(itemType config.HubItemType, name string) bool {
	return h.GetItem(itemType, name) != nil
}

// Names returns the item names of one type, in directory order
func (h *Hub) Names(itemType config.HubItemType) []string {
	items := h.Items[itemType]
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

// ItemCount returns the total number of items
func (h *Hub) ItemCount() int {
	count := 0
	for _, items := range h.Items {
		count += len(items)
	}
	return count
}

// ItemCountByType returns items count per type
func (h *Hub) ItemCountByType() map[config.HubItemType]int {
	counts := make(map[config.HubItemType]int)
	for itemType, items := range h.Items {
		counts[itemType] = len(items)
	}
	return counts
}

// GetHookManifest reads hooks/<name>/hook.yaml. The manifest name defaults to
// the directory name.
func GetHookManifest(hubDir, hookName string) (*config.HookConfig, error) {
	manifestPath := filepath.Join(hubDir, string(config.HubHooks), hookName, HookManifestFile)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewHubError(string(config.HubHooks), hookName, "read manifest", errors.ErrHubItemNotFound)
		}
		return nil, err
	}

	var manifest config.HookConfig
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}
	if manifest.Name == "" {
		manifest.Name = hookName
	}
	if manifest.Event == "" || manifest.Script == "" {
		return nil, fmt.Errorf("%s: event and script are required", manifestPath)
	}
	return &manifest, nil
}

// HookScriptPath returns the script of a hook component in the hub
func HookScriptPath(hubDir string, hook *config.HookConfig) string {
	return filepath.Join(hubDir, string(config.HubHooks), hook.Name, hook.Script)
}

// ReadInstruction reads instructions/<name>.md
func ReadInstruction(hubDir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(hubDir, string(config.HubInstructions), name+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewHubError(string(config.HubInstructions), name, "read", errors.ErrHubItemNotFound)
		}
		return "", err
	}
	return string(data), nil
}
