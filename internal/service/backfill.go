package service

import "github.com/amterp/lanes/internal/model"

// backfill repairs shapes written by older versions: boards without tags get
// the starter set, nil sequences become empty, legacy multi-tag cards keep
// their first tag, and out-of-range enums fall back to defaults.
func (s *BoardService) backfill(boards []model.Board) []model.Board {
	if boards == nil {
		return []model.Board{}
	}
	for i := range boards {
		b := &boards[i]
		if b.Cards == nil {
			b.Cards = []model.Card{}
		}
		if b.AvailableTags == nil {
			b.AvailableTags = model.DefaultTags(s.ids.Generate)
		}
		for j := range b.Cards {
			c := &b.Cards[j]
			if c.SubTasks == nil {
				c.SubTasks = []model.SubTask{}
			}
			if c.TagID == "" && len(c.LegacyTags) > 0 {
				c.TagID = c.LegacyTags[0].ID
			}
			c.LegacyTags = nil
			if !c.Column.Valid() {
				s.logger.WithField("card_id", c.ID).Warnf("card has invalid column %q, moving to todo", c.Column)
				c.Column = model.ColumnTodo
			}
			if !c.Priority.Valid() {
				c.Priority = model.PriorityMedium
			}
		}
	}
	return boards
}
