package cli

import (
	"fmt"
	"strings"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/ra"
)

func registerTag(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("tag")
	cmd.SetDescription("Manage a board's tags")

	// tag add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Add a tag with a color from the palette")

	ctx.TagAddName, _ = ra.NewString("name").
		SetUsage("Tag name").
		Register(addCmd)

	ctx.TagAddBoard, _ = boardFlag(addCmd)

	ctx.TagAddUsed, _ = cmd.RegisterCmd(addCmd)

	// tag list
	listCmd := ra.NewCmd("list")
	listCmd.SetDescription("List tags")

	ctx.TagListBoard, _ = boardFlag(listCmd)

	ctx.TagListJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(listCmd)

	ctx.TagListUsed, _ = cmd.RegisterCmd(listCmd)

	// tag rm
	rmCmd := ra.NewCmd("rm")
	rmCmd.SetDescription("Remove a tag; cards keep pointing at it and show it as removed")

	ctx.TagRmRef, _ = ra.NewString("tag").
		SetUsage("Tag id, id prefix or name").
		SetCompletionFunc(completeTags).
		Register(rmCmd)

	ctx.TagRmBoard, _ = boardFlag(rmCmd)

	ctx.TagRmUsed, _ = cmd.RegisterCmd(rmCmd)

	ctx.TagUsed, _ = parent.RegisterCmd(cmd)
}

func runTagAdd(name, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	app.useBoard(boardRef, interactive)

	name = strings.TrimSpace(name)
	if name == "" {
		Fatal(lnerr.InvalidField("name", "tag name cannot be empty"))
	}
	if existing, ok := app.Boards.FindTagByName(name); ok {
		PrintWarning("Board already has a tag named %q (%s); adding another", existing.Name, existing.ID)
	}

	tag, err := app.Boards.AddTag(name)
	if err != nil {
		Fatal(err)
	}
	PrintSuccess("Added tag %s %s", RenderTag(tag), RenderID(tag.ID))
}

func runTagList(boardRef string, jsonOutput, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	board := app.useBoard(boardRef, interactive)

	if jsonOutput {
		if err := printJson(NewTagsOutput(board.AvailableTags)); err != nil {
			Fatal(err)
		}
		return
	}

	if len(board.AvailableTags) == 0 {
		PrintInfo("No tags on %q", board.Name)
		return
	}

	usage := make(map[string]int)
	for _, card := range board.Cards {
		if card.TagID != "" {
			usage[card.TagID]++
		}
	}

	for _, tag := range board.AvailableTags {
		fmt.Printf("%s %s  %s  %s\n",
			ColorSwatch(tag.Color), tag.Name, RenderID(tag.ID),
			RenderMuted(fmt.Sprintf("%d card(s)", usage[tag.ID])))
	}
}

func runTagRm(ref, boardRef string, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	board := app.useBoard(boardRef, interactive)

	tag, err := app.Resolver.Tag(ref)
	if err != nil {
		Fatal(err)
	}

	app.Boards.RemoveTag(tag.ID)
	PrintSuccess("Removed tag %q", tag.Name)

	var dangling int
	for _, card := range board.Cards {
		if card.TagID == tag.ID {
			dangling++
		}
	}
	if dangling > 0 {
		PrintInfo("%d card(s) still reference it and will show it as removed", dangling)
	}
}
