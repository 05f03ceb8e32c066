package store

import (
	"os"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/settings"
)

// BackupSuffix is appended to a settings file copied by WriteDocument
const BackupSuffix = ".bak"

// ReadDocument reads a settings file. A missing file is an empty document.
func ReadDocument(path string) (*settings.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings.NewDocument(), nil
		}
		return nil, errors.NewPathError(path, "read", err)
	}

	doc, err := settings.Parse(data)
	if err != nil {
		return nil, errors.NewPathError(path, "parse", err)
	}
	return doc, nil
}

// WriteDocument writes doc to path atomically with mode 0644. With backup set,
// an existing file is first copied to path + BackupSuffix.
func WriteDocument(path string, doc *settings.Document, backup bool) error {
	data, err := doc.Marshal()
	if err != nil {
		return errors.NewPathError(path, "encode", err)
	}

	if backup {
		if _, err := os.Stat(path); err == nil {
			if err := copyFile(path, path+BackupSuffix); err != nil {
				return errors.NewPathError(path, "backup", err)
			}
		}
	}

	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return errors.NewPathError(path, "write", err)
	}
	return nil
}
