package utils

import (
	"os"
	"strings"
)

const (
	StorageProviderGCS   = "gcs"
	StorageProviderLocal = "local"
)

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

func GetLocalStorageDir() string {
	dir := strings.TrimSpace(os.Getenv("LOCAL_STORAGE_DIR"))
	if dir == "" {
		return "uploads"
	}
	return dir
}
