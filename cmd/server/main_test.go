package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFileMissing(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MEMORYGAME_TEST_FROM_FILE=loaded\nMEMORYGAME_TEST_PRESET=file\n"), 0o600))

	t.Setenv("MEMORYGAME_TEST_PRESET", "env")
	t.Setenv("MEMORYGAME_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("MEMORYGAME_TEST_FROM_FILE"))

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "loaded", os.Getenv("MEMORYGAME_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("MEMORYGAME_TEST_PRESET"), "existing variables are not overridden")
}
