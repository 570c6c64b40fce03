package cli

import (
	"fmt"
	"strings"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/ra"
)

func registerBoard(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("board")
	cmd.SetDescription("Manage boards")

	// board create
	createCmd := ra.NewCmd("create")
	createCmd.SetDescription("Create a new board")

	ctx.BoardCreateName, _ = ra.NewString("name").
		SetUsage("Name of the board to create").
		Register(createCmd)

	ctx.BoardCreateUsed, _ = cmd.RegisterCmd(createCmd)

	// board list
	listCmd := ra.NewCmd("list")
	listCmd.SetDescription("List all boards")

	ctx.BoardListJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(listCmd)

	ctx.BoardListUsed, _ = cmd.RegisterCmd(listCmd)

	// board select
	selectCmd := ra.NewCmd("select")
	selectCmd.SetDescription("Show which board a reference resolves to (prompts when omitted)")

	ctx.BoardSelectRef, _ = ra.NewString("board").
		SetOptional(true).
		SetUsage("Board id, id prefix or name").
		SetCompletionFunc(completeBoards).
		Register(selectCmd)

	ctx.BoardSelectUsed, _ = cmd.RegisterCmd(selectCmd)

	// board rename
	renameCmd := ra.NewCmd("rename")
	renameCmd.SetDescription("Rename a board")

	ctx.BoardRenameRef, _ = ra.NewString("board").
		SetUsage("Board id, id prefix or name").
		SetCompletionFunc(completeBoards).
		Register(renameCmd)

	ctx.BoardRenameName, _ = ra.NewString("name").
		SetUsage("New board name").
		Register(renameCmd)

	ctx.BoardRenameUsed, _ = cmd.RegisterCmd(renameCmd)

	// board delete
	deleteCmd := ra.NewCmd("delete")
	deleteCmd.SetDescription("Delete a board and all its cards")

	ctx.BoardDeleteRef, _ = ra.NewString("board").
		SetUsage("Board id, id prefix or name").
		SetCompletionFunc(completeBoards).
		Register(deleteCmd)

	ctx.BoardDeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(deleteCmd)

	ctx.BoardDeleteUsed, _ = cmd.RegisterCmd(deleteCmd)

	ctx.BoardUsed, _ = parent.RegisterCmd(cmd)
}

func runBoardCreate(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		Fatal(lnerr.InvalidField("name", "board name cannot be empty"))
	}

	app := mustApp(false)
	defer app.Close()

	board := app.Boards.AddBoard(name)
	PrintSuccess("Created board %q (%s)", board.Name, RenderID(board.ID))
}

func runBoardList(jsonOutput bool) {
	app := mustApp(false)
	defer app.Close()

	boards := app.Boards.Boards()
	if jsonOutput {
		if err := printJson(NewBoardsOutput(boards, app.Boards.ActiveBoardID())); err != nil {
			Fatal(err)
		}
		return
	}

	if len(boards) == 0 {
		PrintInfo("No boards found")
		return
	}

	for i, b := range boards {
		marker := "  "
		if i == 0 {
			// The first board is the one every command uses without -b.
			marker = StyleSuccess.Render("* ")
		}
		fmt.Printf("%s%s  %s %s\n", marker, RenderID(b.ID), b.Name, RenderMuted(fmt.Sprintf("(%d cards)", len(b.Cards))))
	}
}

func runBoardSelect(ref string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	var board model.Board
	if ref == "" && interactive {
		picked, err := app.Resolver.PickBoard("Select board")
		if err != nil {
			Fatal(err)
		}
		app.Boards.SelectBoard(picked.ID)
		board = picked
	} else {
		board = app.useBoard(ref, interactive)
	}

	PrintSuccess("Board %q (%s)", board.Name, RenderID(board.ID))
	PrintInfo("The selection lasts for this run only; pass -b %s to other commands", board.ID)
}

func runBoardRename(ref, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		Fatal(lnerr.InvalidField("name", "board name cannot be empty"))
	}

	app := mustApp(false)
	defer app.Close()

	board, err := app.Resolver.Board(ref)
	if err != nil {
		Fatal(err)
	}

	app.Boards.EditBoard(board.ID, name)
	PrintSuccess("Renamed board %q to %q", board.Name, name)
}

func runBoardDelete(ref string, force, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	board, err := app.Resolver.Board(ref)
	if err != nil {
		Fatal(err)
	}

	if !force {
		if !interactive {
			Fatal(fmt.Errorf("deleting board %q (%s) requires --force in non-interactive mode", board.Name, board.ID))
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Delete board %q and its %d card(s)?", board.Name, len(board.Cards)),
			false,
		)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	app.Boards.DeleteBoard(board.ID)
	PrintSuccess("Deleted board %q", board.Name)
	if len(app.Boards.Boards()) == 0 {
		PrintInfo("No boards left; a new default board is created on the next run")
	}
}
