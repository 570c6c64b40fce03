package cli

import (
	"context"
	"fmt"

	"github.com/amterp/lanes/internal/config"
	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	"github.com/amterp/ra"
	"github.com/bytedance/sonic"
)

func registerMigrate(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("migrate")
	cmd.SetDescription("Copy stored boards to another storage backend")

	ctx.MigrateTo, _ = ra.NewString("to").
		SetUsage("Target backend").
		SetEnumConstraint(store.Backends()).
		Register(cmd)

	ctx.MigratePath, _ = ra.NewString("path").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Target file for the file and sqlite backends (default: data dir)").
		Register(cmd)

	ctx.MigrateDryRun, _ = ra.NewBool("dry-run").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show what would be copied without writing").
		Register(cmd)

	ctx.MigrateSwitch, _ = ra.NewBool("switch").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Point the config file at the target backend afterwards").
		Register(cmd)

	ctx.MigrateUsed, _ = parent.RegisterCmd(cmd)
}

// runMigrate copies the stored payload byte for byte. Anything the new
// backend cannot hold is reported before writing.
func runMigrate(to, path string, dryRun, switchConfig bool) {
	app := mustApp(false)
	defer app.Close()

	ctx := context.Background()

	target := app.Config.Storage
	target.Backend = to
	target.Path = path
	if target.Path == "" {
		target.Path = app.Paths.DefaultStoragePath(to)
	}
	if target.Backend == app.Config.Storage.Backend && target.Path == app.Config.Storage.Path {
		Fatal(lnerr.InvalidField("to", "target is the configured backend"))
	}

	raw, err := app.Gateway.Raw(ctx, app.Config.Storage.Key)
	if err != nil {
		Fatal(fmt.Errorf("reading %s storage: %w", app.Backend.Name(), err))
	}
	var boards []model.Board
	if err := sonic.ConfigStd.Unmarshal(raw, &boards); err != nil {
		Fatal(fmt.Errorf("stored boards are unreadable, run 'lanes doctor --fix' first: %w", err))
	}

	cards := 0
	for _, b := range boards {
		cards += len(b.Cards)
	}
	PrintInfo("%d board(s), %d card(s), %d bytes under %q", len(boards), cards, len(raw), app.Config.Storage.Key)

	if dryRun {
		PrintInfo("Dry run: would copy to %s%s", to, describePath(target))
		return
	}

	backend, err := store.Open(ctx, store.Options{Config: target, Secrets: app.Secrets, Logger: app.Logger})
	if err != nil {
		Fatal(fmt.Errorf("opening %s storage: %w", to, err))
	}
	defer backend.Close()

	if err := backend.Set(ctx, app.Config.Storage.Key, raw); err != nil {
		Fatal(fmt.Errorf("writing %s storage: %w", to, err))
	}
	PrintSuccess("Copied to %s%s", to, describePath(target))

	if switchConfig {
		cfg := *app.Config
		cfg.Storage = target
		if err := config.Save(app.Paths.ConfigPath(), &cfg); err != nil {
			Fatal(err)
		}
		PrintSuccess("Config now uses %s", to)
	}
}

func describePath(cfg model.StorageConfig) string {
	switch cfg.Backend {
	case model.BackendFile, model.BackendSQLite:
		return " at " + cfg.Path
	}
	return ""
}
