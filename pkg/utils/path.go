package utils

import (
	"os"
	"path/filepath"

	coreconfig "github.com/AzielCF/az-study/core/config"
)

// GetSessionStoragePath returns the on-disk folder for a session's uploads,
// creating it on first use.
func GetSessionStoragePath(sessionID string) string {
	path := filepath.Join(coreconfig.Global.Paths.Uploads, sessionID)
	_ = os.MkdirAll(path, 0755)
	return path
}

// EnsureStorageDirectories creates the base storage layout at startup.
func EnsureStorageDirectories() error {
	dirs := []string{
		coreconfig.Global.Paths.Storages,
		coreconfig.Global.Paths.Uploads,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
