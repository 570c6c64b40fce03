package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/amterp/lanes/internal/config"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	"github.com/amterp/lanes/internal/util"
	"github.com/amterp/ra"
	log "github.com/sirupsen/logrus"
)

// completionCtx provides lightweight read-only storage access for shell
// completion. Completion functions run during ParseOrExit, before NewApp()
// is called, and must never write: NewApp would save a default board into
// empty storage.
type completionCtx struct {
	once   sync.Once
	boards []model.Board
}

var compCtx completionCtx

// completionBackends are the backends cheap enough to open on every tab
// press. Remote backends produce no completions.
var completionBackends = map[string]bool{
	model.BackendFile:   true,
	model.BackendSQLite: true,
}

func initCompletionCtx() {
	compCtx.once.Do(func() {
		quiet := log.New()
		quiet.SetOutput(io.Discard)

		paths := config.DefaultPaths()
		cfg, err := config.Load(paths.ConfigPath(), quiet)
		if err != nil || !completionBackends[cfg.Storage.Backend] {
			return
		}
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = paths.DefaultStoragePath(cfg.Storage.Backend)
		}
		if _, err := os.Stat(cfg.Storage.Path); err != nil {
			return
		}

		ctx := context.Background()
		backend, err := store.Open(ctx, store.Options{Config: cfg.Storage, Logger: quiet})
		if err != nil {
			return
		}
		defer backend.Close()

		gw := store.NewGateway(backend, store.WithLogger(quiet))
		compCtx.boards = store.Load(ctx, gw, cfg.Storage.Key, []model.Board(nil))
	})
}

// completeBoards returns board ids and names matching the given prefix.
func completeBoards(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()

	var result []string
	for _, b := range compCtx.boards {
		if strings.HasPrefix(b.ID, toComplete) {
			result = append(result, b.ID)
		}
		if b.Name != b.ID && strings.HasPrefix(util.Fold(b.Name), util.Fold(toComplete)) {
			result = append(result, b.Name)
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// completeCards returns card ids on the hinted board matching the prefix.
func completeCards(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()

	board, ok := hintBoard()
	if !ok {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	var result []string
	for _, card := range board.Cards {
		if strings.HasPrefix(card.ID, toComplete) {
			result = append(result, card.ID)
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// completeTags returns tag names on the hinted board.
func completeTags(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()

	board, ok := hintBoard()
	if !ok {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	var result []string
	for _, tag := range board.AvailableTags {
		if strings.HasPrefix(util.Fold(tag.Name), util.Fold(toComplete)) {
			result = append(result, tag.Name)
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

func completeColumns(toComplete string) ([]string, ra.CompletionDirective) {
	var result []string
	for _, col := range model.Columns {
		if strings.HasPrefix(string(col), toComplete) {
			result = append(result, string(col))
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

func completePriorities(toComplete string) ([]string, ra.CompletionDirective) {
	var result []string
	for _, p := range []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh} {
		if strings.HasPrefix(string(p), toComplete) {
			result = append(result, string(p))
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// completeDragTargets offers lanes and cards, the two things a card can be
// dropped on.
func completeDragTargets(toComplete string) ([]string, ra.CompletionDirective) {
	cols, _ := completeColumns(toComplete)
	cards, _ := completeCards(toComplete)
	return append(cols, cards...), ra.CompletionDirectiveNoFileComp
}

// hintBoard picks the board completion should look at: an explicit
// -b/--board in os.Args, else the first board.
func hintBoard() (model.Board, bool) {
	return pickBoard(compCtx.boards, boardFromArgs(os.Args))
}

// pickBoard matches ref by id, folded name, then id prefix. An empty ref
// picks the first board.
func pickBoard(boards []model.Board, ref string) (model.Board, bool) {
	if len(boards) == 0 {
		return model.Board{}, false
	}
	if ref == "" {
		return boards[0], true
	}
	for _, b := range boards {
		if b.ID == ref {
			return b, true
		}
	}
	for _, b := range boards {
		if util.SameName(b.Name, ref) {
			return b, true
		}
	}
	for _, b := range boards {
		if strings.HasPrefix(b.ID, ref) {
			return b, true
		}
	}
	return model.Board{}, false
}

// boardFromArgs scans the argument list for an explicit -b/--board flag value.
func boardFromArgs(args []string) string {
	for i, arg := range args {
		// --board=value or -b=value (skip empty values so fallback logic runs)
		if v, ok := strings.CutPrefix(arg, "--board="); ok && v != "" {
			return v
		}
		if v, ok := strings.CutPrefix(arg, "-b="); ok && v != "" {
			return v
		}
		if (arg == "--board" || arg == "-b") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// registerCompletion adds the "lanes completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
