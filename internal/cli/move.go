package cli

import (
	"fmt"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/service"
	"github.com/amterp/ra"
)

func registerMove(parent *ra.Cmd, ctx *CommandContext) {
	// move
	moveCmd := ra.NewCmd("move")
	moveCmd.SetDescription("Move a card to another lane")

	ctx.MoveCard, _ = ra.NewString("card").
		SetUsage("Card id or id prefix").
		SetCompletionFunc(completeCards).
		Register(moveCmd)

	ctx.MoveColumn, _ = ra.NewString("column").
		SetUsage("Target lane: todo, doing or done").
		SetCompletionFunc(completeColumns).
		Register(moveCmd)

	ctx.MoveBoard, _ = boardFlag(moveCmd)

	ctx.MoveUsed, _ = parent.RegisterCmd(moveCmd)

	// reorder
	reorderCmd := ra.NewCmd("reorder")
	reorderCmd.SetDescription("Move a card to another card's position within its lane")

	ctx.ReorderCard, _ = ra.NewString("card").
		SetUsage("Card to move").
		SetCompletionFunc(completeCards).
		Register(reorderCmd)

	ctx.ReorderOver, _ = ra.NewString("over").
		SetUsage("Card whose position it takes").
		SetCompletionFunc(completeCards).
		Register(reorderCmd)

	ctx.ReorderBoard, _ = boardFlag(reorderCmd)

	ctx.ReorderUsed, _ = parent.RegisterCmd(reorderCmd)

	// drag
	dragCmd := ra.NewCmd("drag")
	dragCmd.SetDescription("Drop a card onto a lane or another card")

	ctx.DragCard, _ = ra.NewString("card").
		SetUsage("Card being dragged").
		SetCompletionFunc(completeCards).
		Register(dragCmd)

	ctx.DragTarget, _ = ra.NewString("target").
		SetUsage("Lane id or card it is dropped on").
		SetCompletionFunc(completeDragTargets).
		Register(dragCmd)

	ctx.DragBoard, _ = boardFlag(dragCmd)

	ctx.DragUsed, _ = parent.RegisterCmd(dragCmd)
}

func runMove(cardRef, column, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	app.useBoard(boardRef, interactive)

	card, err := app.Resolver.Card(cardRef)
	if err != nil {
		Fatal(err)
	}
	col, ok := model.ParseColumn(column)
	if !ok {
		Fatal(lnerr.InvalidField("column", fmt.Sprintf("%q is not one of todo, doing, done", column)))
	}
	if card.Column == col {
		PrintInfo("Card %s is already in %s", RenderID(card.ID), RenderColumn(col))
		return
	}

	app.Boards.MoveCard(card.ID, col)
	PrintSuccess("Moved card %s to %s", RenderID(card.ID), RenderColumn(col))
}

func runReorder(cardRef, overRef, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	app.useBoard(boardRef, interactive)

	card, err := app.Resolver.Card(cardRef)
	if err != nil {
		Fatal(err)
	}
	over, err := app.Resolver.Card(overRef)
	if err != nil {
		Fatal(err)
	}
	if card.Column != over.Column {
		Fatal(lnerr.InvalidField("over", fmt.Sprintf("card %s is in %s, not %s; use move or drag", over.ID, over.Column, card.Column)))
	}
	if card.ID == over.ID {
		PrintInfo("Nothing to reorder")
		return
	}

	app.Boards.MoveCardToOrder(card.ID, over.ID)
	PrintSuccess("Card %s now sits at %s's position", RenderID(card.ID), RenderID(over.ID))
}

func runDrag(cardRef, target, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	app.useBoard(boardRef, interactive)

	card, err := app.Resolver.Card(cardRef)
	if err != nil {
		Fatal(err)
	}
	if _, ok := app.Boards.BeginDrag(card.ID); !ok {
		Fatal(lnerr.CardNotFound(card.ID))
	}

	overID := target
	if col, isColumn := model.ParseColumn(target); !isColumn || string(col) != target {
		over, err := app.Resolver.Card(target)
		if err != nil {
			Fatal(err)
		}
		overID = over.ID
	}

	switch app.Boards.EndDrag(card.ID, overID) {
	case service.DragMoved:
		moved, _ := app.Boards.Card(card.ID)
		PrintSuccess("Moved card %s to %s", RenderID(card.ID), RenderColumn(moved.Column))
	case service.DragReordered:
		PrintSuccess("Reordered card %s", RenderID(card.ID))
	default:
		PrintInfo("Drop had no effect")
	}
}
