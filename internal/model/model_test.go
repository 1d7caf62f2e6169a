package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultTasks(t *testing.T) {
	tasks, err := ParseDefaultTasks([]byte(`[{"title":" Faucet "},{"title":"Swap"}]`))
	require.NoError(t, err)
	assert.Equal(t, []DefaultTask{{Title: "Faucet"}, {Title: "Swap"}}, tasks)

	for _, raw := range []string{"", "  ", "null"} {
		tasks, err := ParseDefaultTasks([]byte(raw))
		require.NoError(t, err)
		assert.Empty(t, tasks)
	}
}

func TestParseDefaultTasks_Rejects(t *testing.T) {
	cases := map[string]string{
		"blank title":   `[{"title":"  "}]`,
		"unknown field": `[{"title":"a","extra":1}]`,
		"not an array":  `{"title":"a"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDefaultTasks([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	def := DefaultAppConfig()
	assert.Equal(t, def.Database.Path, cfg.Database.Path)
	assert.Equal(t, 10, cfg.Dispatch.TimeoutSec)
	assert.Equal(t, 60, cfg.Display.RefreshIntervalSec)
}

func TestSaveThenLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Database.Path = "/tmp/airdrops-test.db"
	cfg.Log.Level = "debug"
	cfg.Dispatch.TimeoutSec = 3

	require.NoError(t, SaveConfig(path, cfg))
	_, err := os.Stat(path)
	require.NoError(t, err)

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/airdrops-test.db", got.Database.Path)
	assert.Equal(t, "debug", got.Log.Level)
	assert.Equal(t, 3, got.Dispatch.TimeoutSec)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AIRDROPS_DATABASE_PATH", "/tmp/from-env.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", cfg.Database.Path)
}

func TestLoadConfig_NonPositiveFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dispatch:\n  timeout_sec: 0\ndisplay:\n  refresh_interval_sec: -5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Dispatch.TimeoutSec)
	assert.Equal(t, 60, cfg.Display.RefreshIntervalSec)
}

func TestAirdropPatchIsEmpty(t *testing.T) {
	assert.True(t, AirdropPatch{}.IsEmpty())
	name := "x"
	assert.False(t, AirdropPatch{Name: &name}.IsEmpty())
}
