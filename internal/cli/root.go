package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool

	// board command
	BoardUsed        *bool
	BoardCreateUsed  *bool
	BoardCreateName  *string
	BoardListUsed    *bool
	BoardListJson    *bool
	BoardSelectUsed  *bool
	BoardSelectRef   *string
	BoardRenameUsed  *bool
	BoardRenameRef   *string
	BoardRenameName  *string
	BoardDeleteUsed  *bool
	BoardDeleteRef   *string
	BoardDeleteForce *bool

	// add command
	AddUsed        *bool
	AddTitle       *string
	AddDescription *string
	AddPriority    *string
	AddTag         *string
	AddSubTasks    *[]string
	AddEditor      *bool
	AddBoard       *string
	AddJson        *bool

	// list command
	ListUsed   *bool
	ListBoard  *string
	ListColumn *string
	ListJson   *bool

	// show command
	ShowUsed  *bool
	ShowCard  *string
	ShowBoard *string
	ShowJson  *bool

	// edit command
	EditUsed        *bool
	EditCard        *string
	EditBoard       *string
	EditTitle       *string
	EditDescription *string
	EditPriority    *string
	EditColumn      *string
	EditTag         *string
	EditClearTag    *bool
	EditEditor      *bool

	// move / reorder / drag commands
	MoveUsed     *bool
	MoveCard     *string
	MoveColumn   *string
	MoveBoard    *string
	ReorderUsed  *bool
	ReorderCard  *string
	ReorderOver  *string
	ReorderBoard *string
	DragUsed     *bool
	DragCard     *string
	DragTarget   *string
	DragBoard    *string

	// rm command
	DeleteUsed  *bool
	DeleteCard  *string
	DeleteBoard *string
	DeleteForce *bool

	// subtask command
	SubTaskUsed        *bool
	SubTaskAddUsed     *bool
	SubTaskAddCard     *string
	SubTaskAddTitle    *string
	SubTaskAddBoard    *string
	SubTaskEditUsed    *bool
	SubTaskEditCard    *string
	SubTaskEditRef     *string
	SubTaskEditTitle   *string
	SubTaskEditBoard   *string
	SubTaskToggleUsed  *bool
	SubTaskToggleCard  *string
	SubTaskToggleRef   *string
	SubTaskToggleBoard *string
	SubTaskRmUsed      *bool
	SubTaskRmCard      *string
	SubTaskRmRef       *string
	SubTaskRmBoard     *string

	// tag command
	TagUsed      *bool
	TagAddUsed   *bool
	TagAddName   *string
	TagAddBoard  *string
	TagListUsed  *bool
	TagListBoard *string
	TagListJson  *bool
	TagRmUsed    *bool
	TagRmRef     *string
	TagRmBoard   *string

	// doctor command
	DoctorUsed *bool
	DoctorFix  *bool
	DoctorJson *bool

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeNoOpen *bool

	// secret command
	SecretUsed     *bool
	SecretSetUsed  *bool
	SecretSetName  *string
	SecretSetValue *string
	SecretRmUsed   *bool
	SecretRmName   *string

	// init command
	InitUsed    *bool
	InitBackend *string
	InitForce   *bool

	// migrate command
	MigrateUsed   *bool
	MigrateTo     *string
	MigratePath   *string
	MigrateDryRun *bool
	MigrateSwitch *bool

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("lanes")
	cmd.SetDescription("Three-lane kanban boards")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerBoard(cmd, ctx)
	registerAdd(cmd, ctx)
	registerList(cmd, ctx)
	registerShow(cmd, ctx)
	registerEdit(cmd, ctx)
	registerMove(cmd, ctx)
	registerDelete(cmd, ctx)
	registerSubTask(cmd, ctx)
	registerTag(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerServe(cmd, ctx)
	registerSecret(cmd, ctx)
	registerInit(cmd, ctx)
	registerMigrate(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	// Execute the appropriate command
	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, root *ra.Cmd) {
	interactive := !*ctx.NonInteractive

	switch {
	case *ctx.BoardCreateUsed:
		runBoardCreate(*ctx.BoardCreateName)

	case *ctx.BoardListUsed:
		runBoardList(*ctx.BoardListJson)

	case *ctx.BoardSelectUsed:
		runBoardSelect(*ctx.BoardSelectRef, interactive)

	case *ctx.BoardRenameUsed:
		runBoardRename(*ctx.BoardRenameRef, *ctx.BoardRenameName)

	case *ctx.BoardDeleteUsed:
		runBoardDelete(*ctx.BoardDeleteRef, *ctx.BoardDeleteForce, interactive)

	case *ctx.AddUsed:
		runAdd(addArgs{
			title:       *ctx.AddTitle,
			description: *ctx.AddDescription,
			priority:    *ctx.AddPriority,
			tag:         *ctx.AddTag,
			subTasks:    *ctx.AddSubTasks,
			useEditor:   *ctx.AddEditor,
			board:       *ctx.AddBoard,
			json:        *ctx.AddJson,
		}, interactive)

	case *ctx.ListUsed:
		runList(*ctx.ListBoard, *ctx.ListColumn, *ctx.ListJson, interactive)

	case *ctx.ShowUsed:
		runShow(*ctx.ShowCard, *ctx.ShowBoard, *ctx.ShowJson, interactive)

	case *ctx.EditUsed:
		runEdit(editArgs{
			card:        *ctx.EditCard,
			board:       *ctx.EditBoard,
			title:       *ctx.EditTitle,
			description: *ctx.EditDescription,
			priority:    *ctx.EditPriority,
			column:      *ctx.EditColumn,
			tag:         *ctx.EditTag,
			clearTag:    *ctx.EditClearTag,
			useEditor:   *ctx.EditEditor,
		}, interactive)

	case *ctx.MoveUsed:
		runMove(*ctx.MoveCard, *ctx.MoveColumn, *ctx.MoveBoard, interactive)

	case *ctx.ReorderUsed:
		runReorder(*ctx.ReorderCard, *ctx.ReorderOver, *ctx.ReorderBoard, interactive)

	case *ctx.DragUsed:
		runDrag(*ctx.DragCard, *ctx.DragTarget, *ctx.DragBoard, interactive)

	case *ctx.DeleteUsed:
		runDelete(*ctx.DeleteCard, *ctx.DeleteBoard, *ctx.DeleteForce, interactive)

	case *ctx.SubTaskAddUsed:
		runSubTaskAdd(*ctx.SubTaskAddCard, *ctx.SubTaskAddTitle, *ctx.SubTaskAddBoard, interactive)

	case *ctx.SubTaskEditUsed:
		runSubTaskEdit(*ctx.SubTaskEditCard, *ctx.SubTaskEditRef, *ctx.SubTaskEditTitle, *ctx.SubTaskEditBoard, interactive)

	case *ctx.SubTaskToggleUsed:
		runSubTaskToggle(*ctx.SubTaskToggleCard, *ctx.SubTaskToggleRef, *ctx.SubTaskToggleBoard, interactive)

	case *ctx.SubTaskRmUsed:
		runSubTaskRm(*ctx.SubTaskRmCard, *ctx.SubTaskRmRef, *ctx.SubTaskRmBoard, interactive)

	case *ctx.TagAddUsed:
		runTagAdd(*ctx.TagAddName, *ctx.TagAddBoard, interactive)

	case *ctx.TagListUsed:
		runTagList(*ctx.TagListBoard, *ctx.TagListJson, interactive)

	case *ctx.TagRmUsed:
		runTagRm(*ctx.TagRmRef, *ctx.TagRmBoard, interactive)

	case *ctx.DoctorUsed:
		runDoctor(*ctx.DoctorFix, *ctx.DoctorJson)

	case *ctx.ServeUsed:
		runServe(*ctx.ServePort, *ctx.ServeNoOpen)

	case *ctx.SecretSetUsed:
		runSecretSet(*ctx.SecretSetName, *ctx.SecretSetValue, interactive)

	case *ctx.SecretRmUsed:
		runSecretRm(*ctx.SecretRmName)

	case *ctx.InitUsed:
		runInit(*ctx.InitBackend, *ctx.InitForce)

	case *ctx.MigrateUsed:
		runMigrate(*ctx.MigrateTo, *ctx.MigratePath, *ctx.MigrateDryRun, *ctx.MigrateSwitch)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, root)
	}
}
