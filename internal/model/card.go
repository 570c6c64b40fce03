package model

import "strings"

// Priority ranks a card. Persisted as its lowercase name.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts a priority name in any case.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Column is one of the three fixed lanes of a board.
type Column string

const (
	ColumnTodo  Column = "todo"
	ColumnDoing Column = "doing"
	ColumnDone  Column = "done"
)

// Columns lists the lanes in display order.
var Columns = []Column{ColumnTodo, ColumnDoing, ColumnDone}

// Valid reports whether c is one of the three lanes.
func (c Column) Valid() bool {
	switch c {
	case ColumnTodo, ColumnDoing, ColumnDone:
		return true
	}
	return false
}

// ParseColumn accepts a column id in any case.
func ParseColumn(s string) (Column, bool) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Title returns the human-facing column heading.
func (c Column) Title() string {
	switch c {
	case ColumnTodo:
		return "To Do"
	case ColumnDoing:
		return "Doing"
	case ColumnDone:
		return "Done"
	}
	return string(c)
}

// SubTask is a checklist entry owned by a single card.
type SubTask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Card is a unit of work living in one column of a board.
type Card struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority"`
	Column      Column    `json:"column"`
	CreatedAt   int64     `json:"createdAt"` // unix millis
	SubTasks    []SubTask `json:"subTasks"`
	TagID       string    `json:"tagId,omitempty"`

	// LegacyTags is the multi-tag shape written by older versions.
	// It is folded into TagID when boards are loaded and never written back.
	LegacyTags []Tag `json:"tags,omitempty"`
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	if c.SubTasks != nil {
		out.SubTasks = make([]SubTask, len(c.SubTasks))
		copy(out.SubTasks, c.SubTasks)
	}
	if c.LegacyTags != nil {
		out.LegacyTags = make([]Tag, len(c.LegacyTags))
		copy(out.LegacyTags, c.LegacyTags)
	}
	return out
}

// FindSubTask returns the index of the sub-task with the given id, or -1.
func (c *Card) FindSubTask(id string) int {
	for i := range c.SubTasks {
		if c.SubTasks[i].ID == id {
			return i
		}
	}
	return -1
}

// DoneCount returns how many sub-tasks are checked off.
func (c *Card) DoneCount() int {
	n := 0
	for _, st := range c.SubTasks {
		if st.Done {
			n++
		}
	}
	return n
}
