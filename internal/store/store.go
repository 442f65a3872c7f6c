package store

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
)

const (
	DefaultDBFile  = "babynames.db"
	DefaultDataDir = "babynames"
)

// CheckExists verifies if the database file exists at dbPath.
// Returns true if the store exists, false otherwise.
func CheckExists(dbPath string) (bool, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// GetDBPath returns the path of the default database file in storePath.
func GetDBPath(storePath string) string {
	return filepath.Join(storePath, DefaultDBFile)
}

// NameKey returns the lookup key for a name. Names that differ only in
// case share a key.
func NameKey(name string) string {
	return cases.Fold().String(name)
}
