// Package storage keeps uploaded media blobs, keyed by a generated file name.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrObjectNotFound is returned when a blob does not exist in the store
var ErrObjectNotFound = errors.New("object not found")

// validateKey rejects keys that could escape the storage root
func validateKey(key string) error {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
