package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the BABYNAMES_* variables for the test. godotenv never
// overrides a variable that is set, even to the empty string.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDBPath, EnvDataDir, EnvLogLevel, EnvFormat} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "babynames.db", cfg.DBPath)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	clearEnv(t)
	t.Setenv(EnvLogLevel, "debug")

	cfgPath := filepath.Join(dir, "babynames.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db: names.db\ndata: ssa\nlog_level: warn\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvDataDir+"=from-dotenv\n"), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "names.db", cfg.DBPath)
	assert.Equal(t, "from-dotenv", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Format)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	clearEnv(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("db: [unclosed\n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
