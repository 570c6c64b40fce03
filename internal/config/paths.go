package config

import (
	"os"
	"path/filepath"

	"github.com/amterp/lanes/internal/model"
)

const (
	AppDirName        = "lanes"
	ConfigFileName    = "config.toml"
	DataFileName      = "storage.json"
	SQLiteFileName    = "lanes.db"
	CustomFaviconFile = "favicon.svg"
)

// Paths resolves where lanes keeps its config and data. Empty fields fall
// back to the XDG locations.
type Paths struct {
	configDir string
	dataDir   string
}

// NewPaths creates a resolver. Either argument may be empty.
func NewPaths(configDir, dataDir string) *Paths {
	return &Paths{configDir: configDir, dataDir: dataDir}
}

// DefaultPaths resolves the XDG config and data directories for lanes.
func DefaultPaths() *Paths {
	return NewPaths(xdgDir("XDG_CONFIG_HOME", ".config"), xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")))
}

// ConfigDir returns the directory holding config.toml.
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigPath returns the config file path.
func (p *Paths) ConfigPath() string {
	if p.configDir == "" {
		return ""
	}
	return filepath.Join(p.configDir, ConfigFileName)
}

// DataDir returns the directory for local backends.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// CustomFaviconPath returns the path to a user-supplied favicon for the web UI.
func (p *Paths) CustomFaviconPath() string {
	if p.configDir == "" {
		return ""
	}
	return filepath.Join(p.configDir, CustomFaviconFile)
}

// DefaultStoragePath returns the data file for a local backend, or "" for
// backends that don't live on disk.
func (p *Paths) DefaultStoragePath(backend string) string {
	if p.dataDir == "" {
		return ""
	}
	switch backend {
	case model.BackendFile, "":
		return filepath.Join(p.dataDir, DataFileName)
	case model.BackendSQLite:
		return filepath.Join(p.dataDir, SQLiteFileName)
	}
	return ""
}

func xdgDir(env, homeRel string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, homeRel, AppDirName)
}
