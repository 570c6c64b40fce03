package cli

import (
	"fmt"
	"strings"
	"time"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/service"
	"github.com/amterp/ra"
)

type addArgs struct {
	title       string
	description string
	priority    string
	tag         string
	subTasks    []string
	useEditor   bool
	board       string
	json        bool
}

func registerAdd(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("add")
	cmd.SetDescription("Add a card to the To Do lane")

	ctx.AddTitle, _ = ra.NewString("title").
		SetOptional(true).
		SetUsage("Card title (prompted for if omitted)").
		Register(cmd)

	ctx.AddDescription, _ = ra.NewString("description").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Card description").
		Register(cmd)

	ctx.AddPriority, _ = ra.NewString("priority").
		SetShort("p").
		SetOptional(true).
		SetDefault(string(model.PriorityMedium)).
		SetFlagOnly(true).
		SetUsage("Priority: low, medium or high").
		SetCompletionFunc(completePriorities).
		Register(cmd)

	ctx.AddTag, _ = ra.NewString("tag").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Tag name; created if the board has no tag by that name").
		SetCompletionFunc(completeTags).
		Register(cmd)

	ctx.AddSubTasks, _ = ra.NewStringSlice("subtask").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Sub-task title (repeatable)").
		Register(cmd)

	ctx.AddEditor, _ = ra.NewBool("editor").
		SetShort("e").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Write the description in $EDITOR").
		Register(cmd)

	ctx.AddBoard, _ = boardFlag(cmd)

	ctx.AddJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output the created card as JSON").
		Register(cmd)

	ctx.AddUsed, _ = parent.RegisterCmd(cmd)
}

func runAdd(args addArgs, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	board := app.useBoard(args.board, interactive)

	title := strings.TrimSpace(args.title)
	if title == "" {
		if !interactive {
			Fatal(lnerr.InvalidField("title", "a title is required in non-interactive mode"))
		}
		prompted, err := app.Prompter.Input("Title", "")
		if err != nil {
			Fatal(err)
		}
		title = strings.TrimSpace(prompted)
	}
	if title == "" {
		Fatal(lnerr.InvalidField("title", "card title cannot be empty"))
	}

	priority, ok := model.ParsePriority(args.priority)
	if !ok {
		Fatal(lnerr.InvalidField("priority", fmt.Sprintf("%q is not one of low, medium, high", args.priority)))
	}

	description := args.description
	if args.useEditor {
		edited, err := app.Editor.Edit(description)
		if err != nil {
			Fatal(fmt.Errorf("editor failed: %w", err))
		}
		description = edited
	}

	input := service.AddCardInput{
		Title:       title,
		Priority:    priority,
		Description: description,
	}
	for _, st := range args.subTasks {
		if st = strings.TrimSpace(st); st != "" {
			input.SubTasks = append(input.SubTasks, model.SubTask{Title: st})
		}
	}

	if args.tag != "" {
		tag, created, err := app.Resolver.TagOrCreate(args.tag)
		if err != nil {
			Fatal(err)
		}
		if created && !args.json {
			PrintInfo("Created tag %s", RenderTag(tag))
		}
		input.TagID = tag.ID
	}

	card, ok := app.Boards.AddCard(input)
	if !ok {
		Fatal(&lnerr.NoActiveBoardError{ActiveID: app.Boards.ActiveBoardID()})
	}

	if args.json {
		b, _ := app.Boards.Board(board.ID)
		if err := printJson(NewCardOutput(&b, card, time.Now())); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Created card %s in %q", RenderID(card.ID), board.Name)
}

// boardFlag registers the -b/--board flag shared by card commands.
func boardFlag(cmd *ra.Cmd) (*string, error) {
	return ra.NewString("board").
		SetShort("b").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Board id, id prefix or name (default: first board)").
		SetCompletionFunc(completeBoards).
		Register(cmd)
}
