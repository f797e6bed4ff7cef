package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory so a real user config never leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("tasks", pflag.ContinueOnError)
	flags.String("file", "", "")
	flags.String("log-level", "", "")
	flags.Bool("no-color", false, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "tasks.json", cfg.Storage.Path)
	assert.Equal(t, 5*time.Second, cfg.Storage.LockTimeout)
	assert.True(t, cfg.Display.Colors)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadHomeConfigFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".tasks")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
storage:
  path: /var/lib/tasks/tasks.json
  lock_timeout: 250ms
display:
  colors: false
`), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tasks/tasks.json", cfg.Storage.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Storage.LockTimeout)
	assert.False(t, cfg.Display.Colors)
	assert.Equal(t, "warn", cfg.Log.Level, "unset keys keep their defaults")
}

func TestLoadExplicitConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n  format: json\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	isolate(t)
	t.Setenv("TASKS_STORAGE_PATH", "/tmp/env-tasks.json")
	t.Setenv("TASKS_STORAGE_LOCK_TIMEOUT", "2s")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env-tasks.json", cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.Storage.LockTimeout)
}

func TestLoadFlagOverride(t *testing.T) {
	isolate(t)
	t.Setenv("TASKS_STORAGE_PATH", "/tmp/env-tasks.json")

	cfg, err := Load("", testFlags(t, "--file", "flag.json", "--log-level", "error", "--no-color"))
	require.NoError(t, err)
	assert.Equal(t, "flag.json", cfg.Storage.Path)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.False(t, cfg.Display.Colors)
}

func TestLoadUnsetFlagsDoNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("TASKS_STORAGE_PATH", "/tmp/env-tasks.json")

	cfg, err := Load("", testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env-tasks.json", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Display.Colors)
}

func TestLoadExpandsHome(t *testing.T) {
	home := isolate(t)
	t.Setenv("TASKS_STORAGE_PATH", "~/tasks/tasks.json")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks", "tasks.json"), cfg.Storage.Path)
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "x.json"), expandHome("~/x.json"))
	assert.Equal(t, "~other/x.json", expandHome("~other/x.json"))
	assert.Equal(t, "rel/x.json", expandHome("rel/x.json"))
}
