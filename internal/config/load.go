package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LANES_STORAGE_BACKEND.
const EnvPrefix = "LANES"

// Load reads the config file at path over the defaults, then applies
// LANES_* environment overrides. A missing file is not an error.
func Load(path string, logger log.FieldLogger) (*model.Config, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	cfg := model.DefaultConfig()

	if path != "" {
		if err := decodeFile(path, cfg, logger); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("applying %s_* overrides: %w", EnvPrefix, err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *model.Config, logger log.FieldLogger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.WithField("path", path).Debug("no config file, using defaults")
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	switch {
	case cfg.ConfigSchema == "":
		logger.WithField("path", path).Warn(version.MissingConfigSchema(path).Error())
	case cfg.ConfigSchema != version.CurrentConfigSchema():
		return version.InvalidConfigSchema(path, cfg.ConfigSchema)
	}
	return nil
}

// applyEnv overlays environment variables onto cfg. Every key is registered
// with its current value as the default, so viper only changes what the
// environment actually sets.
func applyEnv(cfg *model.Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := map[string]any{
		"config_schema":        cfg.ConfigSchema,
		"log_level":            cfg.LogLevel,
		"log_format":           cfg.LogFormat,
		"editor":               cfg.Editor,
		"id_format":            cfg.IDFormat,
		"default_board_name":   cfg.DefaultBoardName,
		"storage.backend":      cfg.Storage.Backend,
		"storage.path":         cfg.Storage.Path,
		"storage.key":          cfg.Storage.Key,
		"storage.timeout":      cfg.Storage.Timeout,
		"storage.redis.url":    cfg.Storage.Redis.URL,
		"storage.redis.prefix": cfg.Storage.Redis.Prefix,
		"storage.azure.table":  cfg.Storage.Azure.Table,
		"serve.port":           cfg.Serve.Port,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return v.Unmarshal(cfg)
}

// Save writes cfg to path, stamping the current schema version.
func Save(path string, cfg *model.Config) error {
	cfg.ConfigSchema = version.CurrentConfigSchema()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists writes the default config to path if nothing is there yet.
func EnsureExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Save(path, model.DefaultConfig())
	}
	return nil
}
