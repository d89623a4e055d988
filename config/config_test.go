package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grabbox.yaml")
	writeFile(t, path, `
listen: "127.0.0.1:9000"
seed: 7
debug:
  physics: true
window:
  title: test
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Listen)
	require.EqualValues(t, 7, cfg.Seed)
	require.True(t, cfg.Debug.Physics)
	require.False(t, cfg.Debug.HUD)
	require.Equal(t, "test", cfg.Window.Title)
	require.Equal(t, 1280, cfg.Window.Width, "unset fields keep defaults")
	require.Equal(t, 60, cfg.TPS)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "tps: [")
	_, err = Load(bad)
	require.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "tps: -1\n")
	_, err = Load(invalid)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grabbox.yaml")
	writeFile(t, path, "seed: 1\n")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, filepath.Join(dir, "other.yaml"), "seed: 2\n")
	writeFile(t, path, "debug:\n  hud: true\n")

	select {
	case got := <-w.Events:
		abs, err := filepath.Abs(path)
		require.NoError(t, err)
		require.Equal(t, abs, got)
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
