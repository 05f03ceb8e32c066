package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
)

const (
	// TimestampFormat names backup sets
	TimestampFormat = "20060102_150405"

	metadataFile = "backup.yaml"
)

// BackupInfo describes one backup set
type BackupInfo struct {
	ID      string    `yaml:"id"`
	Created time.Time `yaml:"created"`
	Reason  string    `yaml:"reason,omitempty"`
	Files   []string  `yaml:"files"`
}

// BackupManager keeps timestamped copies of project files under one directory
type BackupManager struct {
	root string
	dir  string
	now  func() time.Time
}

// NewBackupManager returns a manager for files below root, storing backup
// sets in dir
func NewBackupManager(root, dir string) *BackupManager {
	return &BackupManager{root: root, dir: dir, now: time.Now}
}

// Dir returns the directory holding the backup sets
func (m *BackupManager) Dir() string {
	return m.dir
}

// Begin starts a backup set. Nothing is written until a file is added.
func (m *BackupManager) Begin(reason string) *BackupSet {
	now := m.now()
	return &BackupSet{
		m:    m,
		info: BackupInfo{Created: now, Reason: reason},
	}
}

// BackupSet collects copies of files about to change
type BackupSet struct {
	m    *BackupManager
	info BackupInfo
	dir  string
}

// ID returns the set's identifier, empty until the first file is added
func (s *BackupSet) ID() string {
	return s.info.ID
}

// Files returns the root-relative paths saved so far
func (s *BackupSet) Files() []string {
	return s.info.Files
}

func (s *BackupSet) open() error {
	if s.dir != "" {
		return nil
	}
	if err := os.MkdirAll(s.m.dir, 0755); err != nil {
		return fmt.Errorf("create backups directory: %w", err)
	}

	base := s.info.Created.Format(TimestampFormat)
	id := base
	for n := 2; ; n++ {
		err := os.Mkdir(filepath.Join(s.m.dir, id), 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create backup directory: %w", err)
		}
		id = base + "-" + strconv.Itoa(n)
	}

	s.info.ID = id
	s.dir = filepath.Join(s.m.dir, id)
	return nil
}

// Add copies the file at path into the set. Missing files and files already
// in the set are ignored.
func (s *BackupSet) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("cannot back up directory %s", path)
	}

	rel, err := filepath.Rel(s.m.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s is outside the project", path)
	}
	rel = filepath.ToSlash(rel)
	for _, f := range s.info.Files {
		if f == rel {
			return nil
		}
	}

	if err := s.open(); err != nil {
		return err
	}
	if err := copyFile(path, filepath.Join(s.dir, filepath.FromSlash(rel))); err != nil {
		return errors.NewPathError(path, "backup", err)
	}
	s.info.Files = append(s.info.Files, rel)
	return s.writeMetadata()
}

func (s *BackupSet) writeMetadata() error {
	data, err := yaml.Marshal(&s.info)
	if err != nil {
		return err
	}
	return WriteFileAtomic(filepath.Join(s.dir, metadataFile), data, 0644)
}

// List returns the backup sets, newest first
func (m *BackupManager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.load(entry.Name())
		if err != nil {
			continue
		}
		infos = append(infos, *info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].Created.Equal(infos[j].Created) {
			return infos[i].Created.After(infos[j].Created)
		}
		return infos[i].ID > infos[j].ID
	})
	return infos, nil
}

func (m *BackupManager) load(id string) (*BackupInfo, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrBackupNotFound, id)
		}
		return nil, err
	}

	var info BackupInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	info.ID = id
	return &info, nil
}

// Restore copies the files of backup set id back into the project. It
// returns the restored root-relative paths.
func (m *BackupManager) Restore(id string) ([]string, error) {
	if id == "" || id != filepath.Base(id) {
		return nil, fmt.Errorf("%w: %q", errors.ErrBackupNotFound, id)
	}
	info, err := m.load(id)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(m.dir, id)
	for _, rel := range info.Files {
		src := filepath.Join(dir, filepath.FromSlash(rel))
		dst := filepath.Join(m.root, filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return nil, errors.NewPathError(dst, "restore", err)
		}
	}
	return info.Files, nil
}

// Prune deletes all but the newest keep backup sets and returns the IDs
// removed. A keep of zero or less removes nothing.
func (m *BackupManager) Prune(keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	infos, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(infos) <= keep {
		return nil, nil
	}

	var removed []string
	for _, info := range infos[keep:] {
		if err := os.RemoveAll(filepath.Join(m.dir, info.ID)); err != nil {
			return removed, err
		}
		removed = append(removed, info.ID)
	}
	return removed, nil
}
