package config

import (
	"path/filepath"
	"testing"

	"github.com/amterp/lanes/internal/model"
)

func TestDefaultPathsHonorsXDG(t *testing.T) {
	cfgHome := t.TempDir()
	dataHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_DATA_HOME", dataHome)

	p := DefaultPaths()

	if got, want := p.ConfigPath(), filepath.Join(cfgHome, "lanes", "config.toml"); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
	if got, want := p.DefaultStoragePath(model.BackendFile), filepath.Join(dataHome, "lanes", "storage.json"); got != want {
		t.Errorf("file path = %q, want %q", got, want)
	}
	if got, want := p.DefaultStoragePath(model.BackendSQLite), filepath.Join(dataHome, "lanes", "lanes.db"); got != want {
		t.Errorf("sqlite path = %q, want %q", got, want)
	}
	if got := p.DefaultStoragePath(model.BackendRedis); got != "" {
		t.Errorf("expected no path for redis, got %q", got)
	}
}

func TestDefaultPathsFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	p := DefaultPaths()

	if got, want := p.ConfigDir(), filepath.Join(home, ".config", "lanes"); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
	if got, want := p.DataDir(), filepath.Join(home, ".local", "share", "lanes"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}
