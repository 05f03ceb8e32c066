package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
)

// DriftType represents the type of configuration drift
type DriftType string

const (
	DriftMissing    DriftType = "missing"    // In manifest but not on disk
	DriftModified   DriftType = "modified"   // Managed file edited outside atreides
	DriftPending    DriftType = "pending"    // A .atreides-new version waits for review
	DriftUnexpected DriftType = "unexpected" // In the hooks directory but not in manifest
)

// DriftItem represents a single drift issue
type DriftItem struct {
	Type DriftType
	Path string
}

func (i DriftItem) String() string {
	return fmt.Sprintf("%s: %s", i.Type, i.Path)
}

// DriftReport contains all drift issues for a project
type DriftReport struct {
	Root   string
	Issues []DriftItem
}

// HasDrift returns true if there are any issues
func (r *DriftReport) HasDrift() bool {
	return len(r.Issues) > 0
}

// IssuesByType groups issues by drift type
func (r *DriftReport) IssuesByType() map[DriftType][]DriftItem {
	result := make(map[DriftType][]DriftItem)
	for _, issue := range r.Issues {
		result[issue.Type] = append(result[issue.Type], issue)
	}
	return result
}

// Strings returns the issues as text lines
func (r *DriftReport) Strings() []string {
	lines := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		lines = append(lines, issue.String())
	}
	return lines
}

// DriftDetector compares a project's files with its manifest
type DriftDetector struct {
	paths *config.ProjectPaths
}

// NewDriftDetector creates a new drift detector
func NewDriftDetector(paths *config.ProjectPaths) *DriftDetector {
	return &DriftDetector{paths: paths}
}

// Detect checks every file record and the hooks directory
func (d *DriftDetector) Detect(m *Manifest) (*DriftReport, error) {
	report := &DriftReport{Root: d.paths.Root}
	known := make(map[string]bool)

	for _, rec := range m.Files {
		known[rec.Path] = true
		abs := d.paths.Abs(rec.Path)

		if _, err := os.Stat(abs + NewVersionSuffix); err == nil {
			report.Issues = append(report.Issues, DriftItem{Type: DriftPending, Path: rec.Path + NewVersionSuffix})
		}

		if rec.Provenance == ProvenanceUserCreated {
			continue
		}

		data, err := os.ReadFile(abs)
		if err != nil {
			if os.IsNotExist(err) {
				report.Issues = append(report.Issues, DriftItem{Type: DriftMissing, Path: rec.Path})
				continue
			}
			return nil, err
		}
		if !rec.Merged && HashBytes(data) != rec.Hash {
			report.Issues = append(report.Issues, DriftItem{Type: DriftModified, Path: rec.Path})
		}
	}

	err := filepath.WalkDir(d.paths.HooksDir(), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || strings.HasSuffix(path, NewVersionSuffix) {
			return nil
		}
		rel := d.paths.Rel(path)
		if !known[rel] {
			report.Issues = append(report.Issues, DriftItem{Type: DriftUnexpected, Path: rel})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}
