package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/amterp/lanes/internal/config"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	"github.com/amterp/ra"
)

func registerInit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("init")
	cmd.SetDescription("Write a starter config file")

	ctx.InitBackend, _ = ra.NewString("backend").
		SetOptional(true).
		SetDefault(model.BackendFile).
		SetFlagOnly(true).
		SetUsage("Storage backend to configure").
		SetEnumConstraint(store.Backends()).
		Register(cmd)

	ctx.InitForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Overwrite an existing config file").
		Register(cmd)

	ctx.InitUsed, _ = parent.RegisterCmd(cmd)
}

func runInit(backend string, force bool) {
	paths := config.DefaultPaths()
	path := paths.ConfigPath()

	_, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		Fatal(err)
	}
	if exists && !force {
		PrintInfo("Config already exists at %s (use --force to overwrite)", RenderMuted(path))
		return
	}

	cfg := model.DefaultConfig()
	cfg.Storage.Backend = backend
	cfg.Storage.Path = paths.DefaultStoragePath(backend)
	if err := config.Save(path, cfg); err != nil {
		Fatal(err)
	}

	PrintSuccess("Wrote %s", path)
	PrintInfo("Storage: %s", backend)
	switch backend {
	case model.BackendRedis:
		PrintInfo("Set [storage.redis] url, and run 'lanes secret set %s' if it needs a password", store.SecretRedisPassword)
	case model.BackendAzure:
		PrintInfo("Run 'lanes secret set %s' before first use", store.SecretAzureConnection)
	default:
		if cfg.Storage.Path != "" {
			PrintInfo("Data file: %s", RenderMuted(cfg.Storage.Path))
		}
	}
}
