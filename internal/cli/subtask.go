package cli

import (
	"strings"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/ra"
)

func registerSubTask(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("subtask")
	cmd.SetDescription("Manage a card's sub-tasks")

	// subtask add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Append a sub-task")

	ctx.SubTaskAddCard, _ = ra.NewString("card").
		SetUsage("Card id or id prefix").
		SetCompletionFunc(completeCards).
		Register(addCmd)

	ctx.SubTaskAddTitle, _ = ra.NewString("title").
		SetOptional(true).
		SetUsage("Sub-task title (prompted for if omitted)").
		Register(addCmd)

	ctx.SubTaskAddBoard, _ = boardFlag(addCmd)

	ctx.SubTaskAddUsed, _ = cmd.RegisterCmd(addCmd)

	// subtask edit
	editCmd := ra.NewCmd("edit")
	editCmd.SetDescription("Retitle a sub-task")

	ctx.SubTaskEditCard, _ = ra.NewString("card").
		SetUsage("Card id or id prefix").
		SetCompletionFunc(completeCards).
		Register(editCmd)

	ctx.SubTaskEditRef, _ = ra.NewString("subtask").
		SetUsage("Sub-task id, id prefix or 1-based position").
		Register(editCmd)

	ctx.SubTaskEditTitle, _ = ra.NewString("title").
		SetUsage("New title").
		Register(editCmd)

	ctx.SubTaskEditBoard, _ = boardFlag(editCmd)

	ctx.SubTaskEditUsed, _ = cmd.RegisterCmd(editCmd)

	// subtask toggle
	toggleCmd := ra.NewCmd("toggle")
	toggleCmd.SetDescription("Flip a sub-task between done and open")

	ctx.SubTaskToggleCard, _ = ra.NewString("card").
		SetUsage("Card id or id prefix").
		SetCompletionFunc(completeCards).
		Register(toggleCmd)

	ctx.SubTaskToggleRef, _ = ra.NewString("subtask").
		SetUsage("Sub-task id, id prefix or 1-based position").
		Register(toggleCmd)

	ctx.SubTaskToggleBoard, _ = boardFlag(toggleCmd)

	ctx.SubTaskToggleUsed, _ = cmd.RegisterCmd(toggleCmd)

	// subtask rm
	rmCmd := ra.NewCmd("rm")
	rmCmd.SetDescription("Remove a sub-task")

	ctx.SubTaskRmCard, _ = ra.NewString("card").
		SetUsage("Card id or id prefix").
		SetCompletionFunc(completeCards).
		Register(rmCmd)

	ctx.SubTaskRmRef, _ = ra.NewString("subtask").
		SetUsage("Sub-task id, id prefix or 1-based position").
		Register(rmCmd)

	ctx.SubTaskRmBoard, _ = boardFlag(rmCmd)

	ctx.SubTaskRmUsed, _ = cmd.RegisterCmd(rmCmd)

	ctx.SubTaskUsed, _ = parent.RegisterCmd(cmd)
}

func runSubTaskAdd(cardRef, title, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	app.useBoard(boardRef, interactive)

	card, err := app.Resolver.Card(cardRef)
	if err != nil {
		Fatal(err)
	}

	title = strings.TrimSpace(title)
	if title == "" && interactive {
		prompted, err := app.Prompter.Input("Sub-task", "")
		if err != nil {
			Fatal(err)
		}
		title = strings.TrimSpace(prompted)
	}
	if title == "" {
		Fatal(lnerr.InvalidField("title", "sub-task title cannot be empty"))
	}

	st, ok := app.Boards.AddSubTask(card.ID, title)
	if !ok {
		Fatal(lnerr.CardNotFound(card.ID))
	}
	PrintSuccess("Added sub-task %s to card %s", RenderID(st.ID), RenderID(card.ID))
}

func runSubTaskEdit(cardRef, ref, title, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	card, st := resolveSubTask(app, cardRef, ref, boardRef, interactive)

	title = strings.TrimSpace(title)
	if title == "" {
		Fatal(lnerr.InvalidField("title", "sub-task title cannot be empty"))
	}

	app.Boards.EditSubTask(card.ID, st.ID, title)
	PrintSuccess("Renamed sub-task %s", RenderID(st.ID))
}

func runSubTaskToggle(cardRef, ref, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	card, st := resolveSubTask(app, cardRef, ref, boardRef, interactive)

	app.Boards.ToggleSubTask(card.ID, st.ID)
	if st.Done {
		PrintSuccess("%s %s", IconOpen, st.Title)
	} else {
		PrintSuccess("%s %s", IconDone, st.Title)
	}
}

func runSubTaskRm(cardRef, ref, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	card, st := resolveSubTask(app, cardRef, ref, boardRef, interactive)

	app.Boards.RemoveSubTask(card.ID, st.ID)
	PrintSuccess("Removed sub-task %s from card %s", RenderID(st.ID), RenderID(card.ID))
}

func resolveSubTask(app *App, cardRef, ref, boardRef string, interactive bool) (model.Card, model.SubTask) {
	app.useBoard(boardRef, interactive)

	card, err := app.Resolver.Card(cardRef)
	if err != nil {
		Fatal(err)
	}
	st, err := app.Resolver.SubTask(card, ref)
	if err != nil {
		Fatal(err)
	}
	return card, st
}
