package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/amterp/lanes/internal/config"
	"github.com/amterp/lanes/internal/credential"
	"github.com/amterp/lanes/internal/editor"
	"github.com/amterp/lanes/internal/id"
	"github.com/amterp/lanes/internal/logging"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/prompt"
	"github.com/amterp/lanes/internal/resolver"
	"github.com/amterp/lanes/internal/service"
	"github.com/amterp/lanes/internal/store"
	log "github.com/sirupsen/logrus"
)

// App holds all the dependencies for the CLI.
type App struct {
	Config   *model.Config
	Paths    *config.Paths
	Logger   *log.Logger
	Secrets  *credential.Store
	Backend  store.Backend
	Gateway  *store.Gateway
	Boards   *service.BoardService
	Doctor   *service.DoctorService
	Resolver *resolver.Resolver
	Prompter prompt.Prompter
	Editor   *editor.Editor
}

// NewApp loads config, opens storage and loads the board collection.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(interactive bool) (*App, error) {
	paths := config.DefaultPaths()

	bootLogger, _ := logging.New("warn", "text", os.Stderr)
	cfg, err := config.Load(paths.ConfigPath(), bootLogger)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = paths.DefaultStoragePath(cfg.Storage.Backend)
	}

	secrets := credential.New()
	backend := openBackend(cfg, secrets, logger)
	gateway := store.NewGateway(backend, store.WithLogger(logger), store.WithTimeout(cfg.Storage.Timeout))

	ids, err := id.New(cfg.IDFormat)
	if err != nil {
		backend.Close()
		return nil, err
	}

	boards := service.NewBoardService(gateway, ids,
		service.WithLogger(logger),
		service.WithStorageKey(cfg.Storage.Key),
		service.WithDefaultBoardName(cfg.DefaultBoardName),
	)
	boards.Load(context.Background())

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	return &App{
		Config:   cfg,
		Paths:    paths,
		Logger:   logger,
		Secrets:  secrets,
		Backend:  backend,
		Gateway:  gateway,
		Boards:   boards,
		Doctor:   service.NewDoctorService(gateway, ids, cfg.Storage.Key),
		Resolver: resolver.New(boards, prompter),
		Prompter: prompter,
		Editor:   editor.NewEditor(cfg.Editor),
	}, nil
}

// openBackend falls back to a session without persistence when the
// configured backend cannot be opened.
func openBackend(cfg *model.Config, secrets store.SecretSource, logger log.FieldLogger) store.Backend {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout)
	defer cancel()

	backend, err := store.Open(ctx, store.Options{Config: cfg.Storage, Secrets: secrets, Logger: logger})
	if err != nil {
		logger.WithError(err).WithField("backend", cfg.Storage.Backend).Debug("opening storage failed")
		PrintWarning("Storage unavailable (%v); changes will not be saved", err)
		return store.NoopBackend{}
	}
	return backend
}

// Close releases the storage backend.
func (a *App) Close() {
	if err := a.Backend.Close(); err != nil {
		a.Logger.WithError(err).Warn("closing storage failed")
	}
}

// mustApp builds the App or exits.
func mustApp(interactive bool) *App {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}
	return app
}

// useBoard applies a -b/--board selection, since the active board is not
// remembered between runs.
func (a *App) useBoard(ref string, interactive bool) model.Board {
	board, err := a.Resolver.UseBoard(ref, interactive)
	if err != nil {
		a.Close()
		Fatal(err)
	}
	return board
}

// Fatal prints an error and exits.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
