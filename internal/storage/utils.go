package storage

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultExtension is used for uploads whose original name has no extension
const DefaultExtension = "bin"

// GenerateFileName generates a unique stored file name that keeps the extension of the original name
func GenerateFileName(originalName string) string {
	ext := strings.TrimPrefix(filepath.Ext(filepath.Base(originalName)), ".")
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		ext = DefaultExtension
	}
	return uuid.New().String() + "." + strings.ToLower(ext)
}
