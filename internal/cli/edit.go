package cli

import (
	"fmt"
	"strings"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/service"
	"github.com/amterp/ra"
)

type editArgs struct {
	card        string
	board       string
	title       string
	description string
	priority    string
	column      string
	tag         string
	clearTag    bool
	useEditor   bool
}

func registerEdit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("edit")
	cmd.SetDescription("Edit a card; only the given fields change")

	ctx.EditCard, _ = ra.NewString("card").
		SetUsage("Card id or id prefix").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.EditBoard, _ = boardFlag(cmd)

	ctx.EditTitle, _ = ra.NewString("title").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New title").
		Register(cmd)

	ctx.EditDescription, _ = ra.NewString("description").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New description").
		Register(cmd)

	ctx.EditPriority, _ = ra.NewString("priority").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New priority: low, medium or high").
		SetCompletionFunc(completePriorities).
		Register(cmd)

	ctx.EditColumn, _ = ra.NewString("column").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New lane: todo, doing or done").
		SetCompletionFunc(completeColumns).
		Register(cmd)

	ctx.EditTag, _ = ra.NewString("tag").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Tag name; created if the board has no tag by that name").
		SetCompletionFunc(completeTags).
		Register(cmd)

	ctx.EditClearTag, _ = ra.NewBool("clear-tag").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Remove the card's tag").
		Register(cmd)

	ctx.EditEditor, _ = ra.NewBool("editor").
		SetShort("e").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Edit the description in $EDITOR").
		Register(cmd)

	ctx.EditUsed, _ = parent.RegisterCmd(cmd)
}

func runEdit(args editArgs, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	app.useBoard(args.board, interactive)

	card, err := app.Resolver.Card(args.card)
	if err != nil {
		Fatal(err)
	}

	if args.tag != "" && args.clearTag {
		Fatal(lnerr.InvalidField("tag", "--tag and --clear-tag cannot be combined"))
	}

	update, err := buildCardUpdate(args)
	if err != nil {
		Fatal(err)
	}

	if args.useEditor {
		current := card.Description
		if update.Description != nil {
			current = *update.Description
		}
		edited, err := app.Editor.Edit(current)
		if err != nil {
			Fatal(fmt.Errorf("editor failed: %w", err))
		}
		update.Description = &edited
	}

	switch {
	case args.clearTag:
		empty := ""
		update.TagID = &empty
	case args.tag != "":
		tag, created, err := app.Resolver.TagOrCreate(args.tag)
		if err != nil {
			Fatal(err)
		}
		if created {
			PrintInfo("Created tag %s", RenderTag(tag))
		}
		update.TagID = &tag.ID
	}

	if update == (service.CardUpdate{}) {
		PrintInfo("Nothing to change")
		return
	}

	app.Boards.EditCard(card.ID, update)
	PrintSuccess("Updated card %s", RenderID(card.ID))
}

// buildCardUpdate validates the flag values that map directly onto a
// CardUpdate. Empty values leave the field untouched.
func buildCardUpdate(args editArgs) (service.CardUpdate, error) {
	var update service.CardUpdate

	if title := strings.TrimSpace(args.title); title != "" {
		update.Title = &title
	}
	if args.description != "" {
		description := args.description
		update.Description = &description
	}
	if args.priority != "" {
		p, ok := model.ParsePriority(args.priority)
		if !ok {
			return update, lnerr.InvalidField("priority", fmt.Sprintf("%q is not one of low, medium, high", args.priority))
		}
		update.Priority = &p
	}
	if args.column != "" {
		col, ok := model.ParseColumn(args.column)
		if !ok {
			return update, lnerr.InvalidField("column", fmt.Sprintf("%q is not one of todo, doing, done", args.column))
		}
		update.Column = &col
	}
	return update, nil
}
