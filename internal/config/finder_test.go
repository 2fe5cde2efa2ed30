package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "crawler", "spiders")
	require.NoError(t, os.MkdirAll(nested, 0755))

	configPath := filepath.Join(root, "crawlship.cfg")
	require.NoError(t, os.WriteFile(configPath, []byte("[deploy]\n"), 0644))

	found, ok := Closest(nested)
	assert.True(t, ok)
	assert.Equal(t, configPath, found)

	assert.Equal(t, root, ProjectRoot(found))
}

func TestClosestPrefersNearest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "crawlship.cfg"), []byte(""), 0644))
	nearest := filepath.Join(nested, "crawlship.yaml")
	require.NoError(t, os.WriteFile(nearest, []byte(""), 0644))

	found, ok := Closest(nested)
	assert.True(t, ok)
	assert.Equal(t, nearest, found)
}

func TestClosestNotFound(t *testing.T) {
	// A bare temp dir has no project configuration anywhere up the chain,
	// unless a stray config exists in a parent of the temp root.
	_, ok := Closest(t.TempDir())
	assert.False(t, ok)
}
