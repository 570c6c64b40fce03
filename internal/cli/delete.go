package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerDelete(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("rm")
	cmd.SetDescription("Delete a card")

	ctx.DeleteCard, _ = ra.NewString("card").
		SetUsage("Card id or id prefix").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.DeleteBoard, _ = boardFlag(cmd)

	ctx.DeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.DeleteUsed, _ = parent.RegisterCmd(cmd)
}

func runDelete(cardRef, boardRef string, force, interactive bool) {
	app := mustApp(interactive)
	defer app.Close()

	app.useBoard(boardRef, interactive)

	card, err := app.Resolver.Card(cardRef)
	if err != nil {
		Fatal(err)
	}

	if !force {
		if !interactive {
			Fatal(fmt.Errorf("refusing to delete card %s without --force in non-interactive mode", card.ID))
		}
		ok, err := app.Prompter.Confirm(fmt.Sprintf("Delete card %q?", card.Title), false)
		if err != nil {
			Fatal(err)
		}
		if !ok {
			PrintInfo("Cancelled")
			return
		}
	}

	app.Boards.RemoveCard(card.ID)
	PrintSuccess("Deleted card %s", RenderID(card.ID))
}
