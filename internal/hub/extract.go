package hub

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
)

var camelBoundary = regexp.MustCompile("([a-z0-9])([A-Z])")

// keyDescriptions describes well-known settings keys
var keyDescriptions = map[string]string{
	"permissions":                "Permission rules for tool use",
	"env":                        "Environment variables for every session",
	"model":                      "Default model",
	"statusLine":                 "Custom status line",
	"includeCoAuthoredBy":        "Co-authored-by trailer in commits",
	"cleanupPeriodDays":          "Days to keep chat transcripts",
	"enableAllProjectMcpServers": "Approve every MCP server in .mcp.json",
	"outputStyle":                "Output style",
}

// ExtractFragments turns each top-level key of doc into a fragment. Hooks are
// managed as hook components and the schema marker is skipped.
func ExtractFragments(doc *settings.Document) []*Fragment {
	var fragments []*Fragment
	obj := doc.Object()
	for _, key := range obj.Keys() {
		if key == "hooks" || key == "$schema" || jsondoc.IsDangerousKey(key) {
			continue
		}
		v, _ := obj.Get(key)
		fragments = append(fragments, &Fragment{
			Name:        FragmentName(key),
			Description: keyDescriptions[key],
			Key:         key,
			Value:       *jsondoc.ToYAML(jsondoc.Sanitize(v)),
		})
	}
	return fragments
}

// FragmentName converts a settings key to a kebab-case fragment name
func FragmentName(key string) string {
	kebab := camelBoundary.ReplaceAllString(key, "${1}-${2}")
	return strings.ToLower(kebab)
}

// SaveFragments writes fragments to fragments/<name>.yaml. Existing files are
// kept unless force is set. It returns the names written.
func SaveFragments(hubDir string, fragments []*Fragment, force bool) ([]string, error) {
	dir := filepath.Join(hubDir, string(config.HubFragments))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var written []string
	for _, fragment := range fragments {
		path := filepath.Join(dir, fragment.Name+".yaml")
		if !force {
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}

		data, err := yaml.Marshal(fragment)
		if err != nil {
			return written, fmt.Errorf("failed to marshal fragment %s: %w", fragment.Name, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write fragment %s: %w", fragment.Name, err)
		}
		written = append(written, fragment.Name)
	}
	return written, nil
}
