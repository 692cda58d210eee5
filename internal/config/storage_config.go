package config

import (
	"os"
	"path/filepath"
)

const (
	storagePrefixVar = "STORAGE_PREFIX"
	storageFileVar   = "STORAGE_FILE"
	storageKeyVar    = "STORAGE_KEY"
)

type Storage struct{}

var _ StorageConfig = Storage{}

// GetStoragePrefix is the <app> part of the persisted keys (<app>-user, <app>-token, ...).
func (Storage) GetStoragePrefix() string {
	return GetEnv(storagePrefixVar, "matchtracker")
}

func (Storage) GetStorageFile() string {
	if f := GetEnv(storageFileVar, ""); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".matchtracker", "session.json")
	}
	return filepath.Join(home, ".matchtracker", "session.json")
}

// GetStorageKey returns the hex encoded secretbox key for the session file, or "" for plain JSON.
func (Storage) GetStorageKey() string {
	return GetEnv(storageKeyVar, "")
}
