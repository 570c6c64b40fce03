package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/util"
	"github.com/amterp/ra"
)

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Display card details")

	ctx.ShowCard, _ = ra.NewString("card").
		SetUsage("Card id or id prefix").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.ShowBoard, _ = boardFlag(cmd)

	ctx.ShowJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

func runShow(cardRef, boardRef string, jsonOutput, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	board := app.useBoard(boardRef, interactive)

	card, err := app.Resolver.Card(cardRef)
	if err != nil {
		Fatal(err)
	}

	now := time.Now()
	if jsonOutput {
		if err := printJson(NewCardOutput(&board, card, now)); err != nil {
			Fatal(err)
		}
		return
	}
	printCard(&board, card, now)
}

func printCard(b *model.Board, card model.Card, now time.Time) {
	const labelWidth = 10

	fmt.Println(TitleBox(card.Title))
	fmt.Println()

	fmt.Println(LabelValue("ID", RenderID(card.ID), labelWidth))
	fmt.Println(LabelValue("Lane", RenderColumn(card.Column), labelWidth))
	fmt.Println(LabelValue("Priority", RenderPriority(card.Priority), labelWidth))
	if tag, ok := b.TagFor(card); ok {
		fmt.Println(LabelValue("Tag", RenderTag(tag), labelWidth))
	}
	created := fmt.Sprintf("%s (%s)", util.FormatMillis(card.CreatedAt), util.DaysAgo(card.CreatedAt, now))
	fmt.Println(LabelValue("Created", RenderMuted(created), labelWidth))

	if card.Description != "" {
		fmt.Println()
		fmt.Println(RenderMuted("Description:"))
		fmt.Printf("  %s\n", strings.ReplaceAll(card.Description, "\n", "\n  "))
	}

	if len(card.SubTasks) > 0 {
		fmt.Printf("\n%s\n", RenderMuted(fmt.Sprintf("Sub-tasks (%d/%d):", card.DoneCount(), len(card.SubTasks))))
		for _, st := range card.SubTasks {
			box := RenderMuted(IconOpen)
			if st.Done {
				box = StyleSuccess.Render(IconDone)
			}
			fmt.Printf("  %s %s %s\n", box, st.Title, RenderMuted(st.ID))
		}
	}
}
