package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/store"
)

// Provenance records who owns a file in the project
type Provenance string

const (
	// ProvenanceManaged files still hold the content atreides wrote
	ProvenanceManaged Provenance = "managed"
	// ProvenanceUserModified files were deployed by atreides and then edited
	ProvenanceUserModified Provenance = "user-modified"
	// ProvenanceUserCreated files existed before atreides wanted to write them
	ProvenanceUserCreated Provenance = "user-created"
)

// Components lists the selected component names by kind
type Components struct {
	Hooks        []string `yaml:"hooks,omitempty"`
	Permissions  []string `yaml:"permissions,omitempty"`
	Fragments    []string `yaml:"fragments,omitempty"`
	Instructions []string `yaml:"instructions,omitempty"`
}

// FileRecord is one file written into the project
type FileRecord struct {
	// Path is relative to the project root, with forward slashes
	Path       string     `yaml:"path"`
	Hash       string     `yaml:"sha256"`
	Provenance Provenance `yaml:"provenance"`
	Component  string     `yaml:"component,omitempty"`
	// Merged files are reconciled with the user's copy on every update
	Merged bool `yaml:"merged,omitempty"`
}

// Manifest represents .claude/atreides.yaml
type Manifest struct {
	Version    string       `yaml:"version"`
	Created    time.Time    `yaml:"created"`
	Updated    time.Time    `yaml:"updated"`
	Components Components   `yaml:"components"`
	Files      []FileRecord `yaml:"files,omitempty"`
}

// NewManifest creates a manifest for a project initialized by version
func NewManifest(version string) *Manifest {
	now := time.Now().UTC().Truncate(time.Second)
	return &Manifest{Version: version, Created: now, Updated: now}
}

// LoadManifest reads a manifest from file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPathError(path, "read", errors.ErrNotInitialized)
		}
		return nil, errors.NewPathError(path, "read", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewPathError(path, "parse", fmt.Errorf("%w: %v", errors.ErrInvalidManifest, err))
	}
	for _, f := range m.Files {
		if f.Path == "" || f.Hash == "" {
			return nil, errors.NewPathError(path, "parse", fmt.Errorf("%w: file record without path or hash", errors.ErrInvalidManifest))
		}
	}
	return &m, nil
}

// Save writes the manifest to file with its files sorted by path
func (m *Manifest) Save(path string) error {
	m.Updated = time.Now().UTC().Truncate(time.Second)
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })

	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return store.WriteFileAtomic(path, data, 0644)
}

// File returns the record for path, or nil
func (m *Manifest) File(path string) *FileRecord {
	for i := range m.Files {
		if m.Files[i].Path == path {
			return &m.Files[i]
		}
	}
	return nil
}

// SetFile adds or replaces the record for rec.Path
func (m *Manifest) SetFile(rec FileRecord) {
	if cur := m.File(rec.Path); cur != nil {
		*cur = rec
		return
	}
	m.Files = append(m.Files, rec)
}

// RemoveFile deletes the record for path
func (m *Manifest) RemoveFile(path string) bool {
	for i := range m.Files {
		if m.Files[i].Path == path {
			m.Files = append(m.Files[:i], m.Files[i+1:]...)
			return true
		}
	}
	return false
}

// CountByProvenance returns how many files each provenance has
func (m *Manifest) CountByProvenance() map[Provenance]int {
	counts := make(map[Provenance]int)
	for _, f := range m.Files {
		counts[f.Provenance]++
	}
	return counts
}

// HashBytes returns the hex sha256 of data
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
