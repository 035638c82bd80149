package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFileLayersOverDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{"addr": ":9000", "engine": {"time_budget_ms": 500}}`)
	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, 500, cfg.Engine.TimeBudgetMs)
	require.Equal(t, 15, cfg.Engine.BoardSize)
	require.Equal(t, DefaultConfig().Engine.Schedule, cfg.Engine.Schedule)
}

func TestLoadConfigFileRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"syntax":     `{"addr": `,
		"board":      `{"engine": {"board_size": 3}}`,
		"log level":  `{"log_level": "loud"}`,
		"bucket ord": `{"engine": {"bucket_order": "random"}}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfigFile(writeFile(t, dir, name+".json", content))
			require.Error(t, err)
		})
	}
	_, err := LoadConfigFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestConfigStoreKeepsValidConfig(t *testing.T) {
	store := &ConfigStore{config: DefaultConfig()}
	bad := DefaultConfig()
	bad.Engine.KillDepth = 0
	require.Error(t, store.Update(bad))
	require.Equal(t, DefaultConfig(), store.Get())

	good := DefaultConfig()
	good.Engine.TimeBudgetMs = 1500
	require.NoError(t, store.Update(good))
	got := store.Get()
	require.Equal(t, 1500, got.Engine.TimeBudgetMs)

	got.Engine.Schedule[0].Depth = 99
	require.NotEqual(t, 99, store.Get().Engine.Schedule[0].Depth, "callers get their own schedule")
}

func TestSaveConfigRoundTripsThroughXDG(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()

	_, path, err := LoadConfig()
	require.NoError(t, err)
	require.Empty(t, path, "no config file yet")

	cfg := DefaultConfig()
	cfg.Addr = ":7070"
	cfg.Engine.ClusterBonusPercent = 25
	saved, err := SaveConfig(cfg)
	require.NoError(t, err)

	loaded, path, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, saved, path)
	require.Equal(t, cfg, loaded)
}
