package cli

import (
	"fmt"
	"strings"
	"time"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/util"
	"github.com/amterp/ra"
)

func registerList(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("list")
	cmd.SetDescription("List cards lane by lane")

	ctx.ListBoard, _ = boardFlag(cmd)

	ctx.ListColumn, _ = ra.NewString("column").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Only this lane: todo, doing or done").
		SetCompletionFunc(completeColumns).
		Register(cmd)

	ctx.ListJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ListUsed, _ = parent.RegisterCmd(cmd)
}

func runList(boardRef, column string, jsonOutput, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	board := app.useBoard(boardRef, interactive)

	columns := model.Columns
	if column != "" {
		col, ok := model.ParseColumn(column)
		if !ok {
			Fatal(lnerr.InvalidField("column", fmt.Sprintf("%q is not one of todo, doing, done", column)))
		}
		columns = []model.Column{col}
	}

	now := time.Now()
	if jsonOutput {
		var cards []model.Card
		for _, col := range columns {
			cards = append(cards, board.CardsInColumn(col)...)
		}
		if err := printJson(NewListOutput(&board, cards, now)); err != nil {
			Fatal(err)
		}
		return
	}

	fmt.Println(RenderBold(board.Name))
	for _, col := range columns {
		cards := board.CardsInColumn(col)
		fmt.Printf("\n%s %s\n", RenderColumn(col), RenderMuted(fmt.Sprintf("(%d)", len(cards))))
		for _, card := range cards {
			printCardLine(&board, card, now)
		}
	}
}

func printCardLine(b *model.Board, card model.Card, now time.Time) {
	parts := []string{RenderID(card.ID), card.Title, RenderPriority(card.Priority)}
	if tag, ok := b.TagFor(card); ok {
		parts = append(parts, RenderTag(tag))
	}
	if n := len(card.SubTasks); n > 0 {
		parts = append(parts, RenderMuted(fmt.Sprintf("%d/%d", card.DoneCount(), n)))
	}
	parts = append(parts, RenderMuted(util.DaysAgo(card.CreatedAt, now)))
	fmt.Printf("  %s\n", strings.Join(parts, "  "))
}
