package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	root := t.TempDir()
	nested := filepath.Join(root, "cmd", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "migrations"), 0o755))

	require.NoError(t, os.Chdir(root))
	assert.Equal(t, "file://migrations", MigrationPath())

	require.NoError(t, os.Chdir(nested))
	assert.Equal(t, "file://../../migrations", MigrationPath())
}
