package cli

import (
	"fmt"
	"time"

	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/util"
	"github.com/bytedance/sonic"
)

// cardJson is a card as printed by --json: the stored fields plus the
// resolved tag and a relative age label.
//
// SYNC WARNING: This struct must stay in sync with model.Card fields.
// If you add fields to model.Card, add them here too. See TestCardJsonFieldSync.
type cardJson struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    model.Priority  `json:"priority"`
	Column      model.Column    `json:"column"`
	CreatedAt   int64           `json:"created_at_millis"`
	SubTasks    []model.SubTask `json:"sub_tasks"`
	TagID       string          `json:"tag_id,omitempty"`

	Created string     `json:"created"`
	Done    int        `json:"sub_tasks_done"`
	Tag     *model.Tag `json:"tag,omitempty"`
}

func cardToJson(b *model.Board, c model.Card, now time.Time) cardJson {
	out := cardJson{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Priority:    c.Priority,
		Column:      c.Column,
		CreatedAt:   c.CreatedAt,
		SubTasks:    c.SubTasks,
		TagID:       c.TagID,
		Created:     util.DaysAgo(c.CreatedAt, now),
		Done:        c.DoneCount(),
	}
	if out.SubTasks == nil {
		out.SubTasks = []model.SubTask{}
	}
	if tag, ok := b.TagFor(c); ok {
		out.Tag = &tag
	}
	return out
}

// CardOutput wraps a single card for JSON output.
type CardOutput struct {
	Card cardJson `json:"card"`
}

// NewCardOutput creates a CardOutput for a card on board b.
func NewCardOutput(b *model.Board, card model.Card, now time.Time) CardOutput {
	return CardOutput{Card: cardToJson(b, card, now)}
}

// boardRef names the board a listing came from.
type boardRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListOutput wraps a list of cards for JSON output.
type ListOutput struct {
	Board boardRef   `json:"board"`
	Cards []cardJson `json:"cards"`
}

// NewListOutput creates a ListOutput from cards on board b.
// Always returns an empty array (not null) when there are no cards.
func NewListOutput(b *model.Board, cards []model.Card, now time.Time) ListOutput {
	result := make([]cardJson, 0, len(cards))
	for _, c := range cards {
		result = append(result, cardToJson(b, c, now))
	}
	return ListOutput{Board: boardRef{ID: b.ID, Name: b.Name}, Cards: result}
}

// BoardInfo summarizes a board for JSON output.
type BoardInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Cards  int    `json:"cards"`
	Tags   int    `json:"tags"`
	Active bool   `json:"active"`
}

// BoardsOutput wraps a list of boards for JSON output.
type BoardsOutput struct {
	Boards []BoardInfo `json:"boards"`
}

// NewBoardsOutput creates a BoardsOutput, flagging the active board.
// Always returns an empty array (not null) when there are no boards.
func NewBoardsOutput(boards []model.Board, activeID string) BoardsOutput {
	result := make([]BoardInfo, 0, len(boards))
	for _, b := range boards {
		result = append(result, BoardInfo{
			ID:     b.ID,
			Name:   b.Name,
			Cards:  len(b.Cards),
			Tags:   len(b.AvailableTags),
			Active: b.ID == activeID,
		})
	}
	return BoardsOutput{Boards: result}
}

// TagsOutput wraps a board's tags for JSON output.
type TagsOutput struct {
	Tags []model.Tag `json:"tags"`
}

// NewTagsOutput creates a TagsOutput.
// Always returns an empty array (not null) when there are no tags.
func NewTagsOutput(tags []model.Tag) TagsOutput {
	if tags == nil {
		tags = []model.Tag{}
	}
	return TagsOutput{Tags: tags}
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
