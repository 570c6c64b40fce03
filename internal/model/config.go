package model

import "time"

// Config is the user's lanes configuration.
// Stored at ~/.config/lanes/config.toml; any key may be overridden by a
// LANES_* environment variable.
// Schema changes require a version bump, see internal/version/version.go.
type Config struct {
	ConfigSchema     string        `toml:"config_schema" mapstructure:"config_schema"`
	LogLevel         string        `toml:"log_level,omitempty" mapstructure:"log_level"`
	LogFormat        string        `toml:"log_format,omitempty" mapstructure:"log_format"`
	Editor           string        `toml:"editor,omitempty" mapstructure:"editor"`
	IDFormat         string        `toml:"id_format,omitempty" mapstructure:"id_format"`
	DefaultBoardName string        `toml:"default_board_name,omitempty" mapstructure:"default_board_name"`
	Storage          StorageConfig `toml:"storage" mapstructure:"storage"`
	Serve            ServeConfig   `toml:"serve" mapstructure:"serve"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string        `toml:"backend,omitempty" mapstructure:"backend"` // file, sqlite, redis, azure, memory, none
	Path    string        `toml:"path,omitempty" mapstructure:"path"`       // file and sqlite only
	Key     string        `toml:"key,omitempty" mapstructure:"key"`
	Timeout time.Duration `toml:"timeout,omitempty" mapstructure:"timeout"`
	Redis   RedisConfig   `toml:"redis" mapstructure:"redis"`
	Azure   AzureConfig   `toml:"azure" mapstructure:"azure"`
}

type RedisConfig struct {
	URL    string `toml:"url,omitempty" mapstructure:"url"`
	Prefix string `toml:"prefix,omitempty" mapstructure:"prefix"`
}

type AzureConfig struct {
	Table string `toml:"table,omitempty" mapstructure:"table"`
}

type ServeConfig struct {
	Port int `toml:"port,omitempty" mapstructure:"port"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendAzure  = "azure"
	BackendMemory = "memory"
	BackendNone   = "none"

	IDFormatFlex = "flex"
	IDFormatUUID = "uuid"

	DefaultStorageKey = "boardData"
	DefaultBoardName  = "My First Board"
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:         "warn",
		LogFormat:        "text",
		IDFormat:         IDFormatFlex,
		DefaultBoardName: DefaultBoardName,
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     DefaultStorageKey,
			Timeout: 5 * time.Second,
			Redis: RedisConfig{
				URL:    "redis://localhost:6379/0",
				Prefix: "lanes:",
			},
			Azure: AzureConfig{Table: "lanes"},
		},
		Serve: ServeConfig{Port: 3000},
	}
}
