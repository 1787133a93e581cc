package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithoutConfig(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, Initialize(ws))
	defer CloseAll()

	// No config file means production mode: no logging, no logs dir.
	assert.False(t, IsDebugMode())
	assert.False(t, IsCategoryEnabled(CategoryRepomap))
	_, err := os.Stat(filepath.Join(ws, ".codebase", "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestInitializeDebugMode(t *testing.T) {
	ws := t.TempDir()
	confDir := filepath.Join(ws, ".codebase")
	require.NoError(t, os.MkdirAll(confDir, 0755))
	conf := "logging:\n  debug_mode: true\n  level: debug\n  categories:\n    matcher: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(conf), 0644))

	require.NoError(t, Initialize(ws))
	defer CloseAll()

	assert.True(t, IsDebugMode())
	assert.True(t, IsCategoryEnabled(CategoryRepomap))
	assert.False(t, IsCategoryEnabled(CategoryMatcher))

	Repomap("hello from test")
	entries, err := os.ReadDir(filepath.Join(ws, ".codebase", "logs"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	assert.Error(t, Initialize(""))
}
