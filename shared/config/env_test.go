package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Run("set value wins", func(t *testing.T) {
		t.Setenv("ECOFINDS_TEST_ADDR", ":9090")
		assert.Equal(t, ":9090", GetEnv("ECOFINDS_TEST_ADDR", ":8080"))
	})

	t.Run("empty falls back", func(t *testing.T) {
		t.Setenv("ECOFINDS_TEST_ADDR", "")
		assert.Equal(t, ":8080", GetEnv("ECOFINDS_TEST_ADDR", ":8080"))
	})
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("ECOFINDS_TEST_INT", "42")
	t.Setenv("ECOFINDS_TEST_BAD_INT", "forty-two")
	t.Setenv("ECOFINDS_TEST_BOOL", "true")
	t.Setenv("ECOFINDS_TEST_DURATION", "250ms")

	assert.Equal(t, 42, GetEnvInt("ECOFINDS_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("ECOFINDS_TEST_BAD_INT", 1))
	assert.True(t, GetEnvBool("ECOFINDS_TEST_BOOL", false))
	assert.False(t, GetEnvBool("ECOFINDS_TEST_MISSING_BOOL", false))
	assert.Equal(t, 250*time.Millisecond, GetEnvDuration("ECOFINDS_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("ECOFINDS_TEST_MISSING_DURATION", time.Second))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ECOFINDS_TEST_FROM_FILE=file\nECOFINDS_TEST_PRESET=file\n"), 0o600))

	t.Setenv("ECOFINDS_TEST_PRESET", "env")
	// t.Setenv registers cleanup only for keys it sets, so register the file key too.
	t.Setenv("ECOFINDS_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("ECOFINDS_TEST_FROM_FILE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "file", os.Getenv("ECOFINDS_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("ECOFINDS_TEST_PRESET"), "existing variables are not overridden")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
