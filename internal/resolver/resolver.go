package resolver

import (
	"strconv"
	"strings"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/prompt"
	"github.com/amterp/lanes/internal/service"
)

// Resolver turns user-typed references into store entities. Misses become
// explicit errors here, before the store's silent no-ops are reached.
type Resolver struct {
	boards   *service.BoardService
	prompter prompt.Prompter
}

// New creates a resolver over boards. prompter may be nil.
func New(boards *service.BoardService, prompter prompt.Prompter) *Resolver {
	if prompter == nil {
		prompter = &prompt.NoopPrompter{}
	}
	return &Resolver{boards: boards, prompter: prompter}
}

// Board resolves a board by id, folded name, or unique id prefix.
func (r *Resolver) Board(ref string) (model.Board, error) {
	return match("board", r.boards.Boards(), ref,
		func(b model.Board) string { return b.ID },
		func(b model.Board) string { return b.Name })
}

// UseBoard makes the referenced board active. An empty ref keeps the
// current selection, prompting when interactive and more than one board
// exists but none is active.
func (r *Resolver) UseBoard(ref string, interactive bool) (model.Board, error) {
	if ref != "" {
		b, err := r.Board(ref)
		if err != nil {
			return model.Board{}, err
		}
		r.boards.SelectBoard(b.ID)
		return b, nil
	}

	if b, ok := r.boards.ActiveBoard(); ok {
		return b, nil
	}

	boards := r.boards.Boards()
	if len(boards) == 0 || !interactive {
		return model.Board{}, &lnerr.NoActiveBoardError{ActiveID: r.boards.ActiveBoardID()}
	}
	picked, err := r.PickBoard("Select board")
	if err != nil {
		return model.Board{}, err
	}
	r.boards.SelectBoard(picked.ID)
	return picked, nil
}

// PickBoard prompts for one of the stored boards.
func (r *Resolver) PickBoard(title string) (model.Board, error) {
	boards := r.boards.Boards()
	options := make([]prompt.Option, len(boards))
	for i, b := range boards {
		options[i] = prompt.Option{Label: b.Name, Value: b.ID}
	}
	id, err := r.prompter.Select(title, options)
	if err != nil {
		return model.Board{}, err
	}
	return r.Board(id)
}

// Card resolves a card on the active board by id or unique id prefix.
func (r *Resolver) Card(ref string) (model.Card, error) {
	if _, ok := r.boards.ActiveBoard(); !ok {
		return model.Card{}, &lnerr.NoActiveBoardError{ActiveID: r.boards.ActiveBoardID()}
	}
	return match("card", r.boards.Cards(), ref, func(c model.Card) string { return c.ID }, nil)
}

// SubTask resolves a sub-task of card by id, unique id prefix, or 1-based
// position in the checklist.
func (r *Resolver) SubTask(card model.Card, ref string) (model.SubTask, error) {
	st, err := match("subtask", card.SubTasks, ref, func(s model.SubTask) string { return s.ID }, nil)
	if lnerr.IsNotFound(err) {
		if n, convErr := strconv.Atoi(ref); convErr == nil && n >= 1 && n <= len(card.SubTasks) {
			return card.SubTasks[n-1], nil
		}
		return model.SubTask{}, lnerr.SubTaskNotFound(ref, card.ID)
	}
	return st, err
}

// Tag resolves a tag on the active board by id, folded name, or unique id
// prefix.
func (r *Resolver) Tag(ref string) (model.Tag, error) {
	if _, ok := r.boards.ActiveBoard(); !ok {
		return model.Tag{}, &lnerr.NoActiveBoardError{ActiveID: r.boards.ActiveBoardID()}
	}
	return match("tag", r.boards.AvailableTags(), ref,
		func(t model.Tag) string { return t.ID },
		func(t model.Tag) string { return t.Name })
}

// TagOrCreate returns the tag whose name folds to name, adding one when
// none exists. The store itself never deduplicates.
func (r *Resolver) TagOrCreate(name string) (model.Tag, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, false, lnerr.InvalidField("tag", "name is empty")
	}
	if tag, ok := r.boards.FindTagByName(name); ok {
		return tag, false, nil
	}
	tag, err := r.boards.AddTag(name)
	if err != nil {
		return model.Tag{}, false, err
	}
	return tag, true, nil
}
