package service

import (
	"github.com/amterp/lanes/internal/model"
)

// AddCardInput contains the input for adding a card.
type AddCardInput struct {
	Title       string
	Priority    model.Priority // empty or unknown means medium
	Description string
	SubTasks    []model.SubTask // entries without an id get one
	TagID       string
}

// CardUpdate is a partial card. Pointer fields indicate "set this field";
// nil means "don't change". A card's id and creation time cannot be edited.
type CardUpdate struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	Column      *model.Column
	SubTasks    *[]model.SubTask
	TagID       *string // empty string clears the tag
}

// Card returns the card with the given id from the active board.
func (s *BoardService) Card(cardID string) (model.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.active(); b != nil {
		if c := b.FindCard(cardID); c != nil {
			return c.Clone(), true
		}
	}
	return model.Card{}, false
}

// Cards returns the active board's card sequence.
func (s *BoardService) Cards() []model.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.active(); b != nil {
		return b.Clone().Cards
	}
	return []model.Card{}
}

// CardsInColumn returns the active board's cards in col, in sequence order.
func (s *BoardService) CardsInColumn(col model.Column) []model.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.active(); b != nil {
		return b.CardsInColumn(col)
	}
	return []model.Card{}
}

// AddCard appends a new card to the todo column of the active board.
// Reports false, and does nothing, when no board is active.
func (s *BoardService) AddCard(input AddCardInput) (model.Card, bool) {
	var card model.Card
	added := false
	s.mutateActive(func(b *model.Board) Change {
		priority := input.Priority
		if !priority.Valid() {
			priority = model.PriorityMedium
		}
		subTasks := s.withSubTaskIDs(input.SubTasks)

		card = model.Card{
			ID:          s.ids.Generate(),
			Title:       input.Title,
			Description: input.Description,
			Priority:    priority,
			Column:      model.ColumnTodo,
			CreatedAt:   s.now().UnixMilli(),
			SubTasks:    subTasks,
			TagID:       input.TagID,
		}
		b.Cards = append(b.Cards, card)
		added = true
		return Change{Op: OpCardAdded, CardID: card.ID}
	})
	return card.Clone(), added
}

// withSubTaskIDs copies subTasks, giving every entry without an id a fresh one.
func (s *BoardService) withSubTaskIDs(subTasks []model.SubTask) []model.SubTask {
	out := make([]model.SubTask, 0, len(subTasks))
	for _, st := range subTasks {
		if st.ID == "" {
			st.ID = s.ids.Generate()
		}
		out = append(out, st)
	}
	return out
}

// EditCard merges update into the matching card of the active board.
// Column and priority values outside their enums are ignored.
func (s *BoardService) EditCard(cardID string, update CardUpdate) {
	s.mutateActive(func(b *model.Board) Change {
		c := b.FindCard(cardID)
		if c == nil {
			return Change{Op: OpCardEdited, CardID: cardID}
		}
		if update.Title != nil {
			c.Title = *update.Title
		}
		if update.Description != nil {
			c.Description = *update.Description
		}
		if update.Priority != nil && update.Priority.Valid() {
			c.Priority = *update.Priority
		}
		if update.Column != nil && update.Column.Valid() {
			c.Column = *update.Column
		}
		if update.SubTasks != nil {
			c.SubTasks = s.withSubTaskIDs(*update.SubTasks)
		}
		if update.TagID != nil {
			c.TagID = *update.TagID
		}
		return Change{Op: OpCardEdited, CardID: cardID}
	})
}

// RemoveCard deletes the matching card from the active board.
func (s *BoardService) RemoveCard(cardID string) {
	s.mutateActive(func(b *model.Board) Change {
		if i := b.CardIndex(cardID); i >= 0 {
			b.Cards = append(b.Cards[:i], b.Cards[i+1:]...)
		}
		return Change{Op: OpCardRemoved, CardID: cardID}
	})
}

// MoveCard sets the card's column and leaves its place in the card
// sequence alone, so it lands wherever that position falls in the new
// column's view.
func (s *BoardService) MoveCard(cardID string, col model.Column) {
	if !col.Valid() {
		return
	}
	s.mutateActive(func(b *model.Board) Change {
		if c := b.FindCard(cardID); c != nil {
			c.Column = col
		}
		return Change{Op: OpCardMoved, CardID: cardID}
	})
}

// MoveCardToOrder relocates activeID to overID's position in the active
// board's sequence, shifting the cards in between by one. Both cards must
// exist and share a column; otherwise the sequence is left untouched.
func (s *BoardService) MoveCardToOrder(activeID, overID string) {
	s.mutateActive(func(b *model.Board) Change {
		from := b.CardIndex(activeID)
		to := b.CardIndex(overID)
		if from >= 0 && to >= 0 && b.Cards[from].Column == b.Cards[to].Column {
			b.Cards = arrayMove(b.Cards, from, to)
		}
		return Change{Op: OpCardReordered, CardID: activeID}
	})
}

// ToggleSubTask flips the done flag of a sub-task.
func (s *BoardService) ToggleSubTask(cardID, subTaskID string) {
	s.mutateActive(func(b *model.Board) Change {
		if c := b.FindCard(cardID); c != nil {
			if i := c.FindSubTask(subTaskID); i >= 0 {
				c.SubTasks[i].Done = !c.SubTasks[i].Done
			}
		}
		return Change{Op: OpSubTaskToggled, CardID: cardID}
	})
}

// AddSubTask appends an unchecked sub-task to the card.
// Reports false when there is no active board or no such card.
func (s *BoardService) AddSubTask(cardID, title string) (model.SubTask, bool) {
	var st model.SubTask
	added := false
	s.mutateActive(func(b *model.Board) Change {
		if c := b.FindCard(cardID); c != nil {
			st = model.SubTask{ID: s.ids.Generate(), Title: title}
			c.SubTasks = append(c.SubTasks, st)
			added = true
		}
		return Change{Op: OpSubTaskAdded, CardID: cardID}
	})
	return st, added
}

// EditSubTask renames a sub-task.
func (s *BoardService) EditSubTask(cardID, subTaskID, title string) {
	s.mutateActive(func(b *model.Board) Change {
		if c := b.FindCard(cardID); c != nil {
			if i := c.FindSubTask(subTaskID); i >= 0 {
				c.SubTasks[i].Title = title
			}
		}
		return Change{Op: OpSubTaskEdited, CardID: cardID}
	})
}

// RemoveSubTask deletes a sub-task from the card.
func (s *BoardService) RemoveSubTask(cardID, subTaskID string) {
	s.mutateActive(func(b *model.Board) Change {
		if c := b.FindCard(cardID); c != nil {
			if i := c.FindSubTask(subTaskID); i >= 0 {
				c.SubTasks = append(c.SubTasks[:i], c.SubTasks[i+1:]...)
			}
		}
		return Change{Op: OpSubTaskRemoved, CardID: cardID}
	})
}

// arrayMove returns cards with the element at from relocated to index to.
func arrayMove(cards []model.Card, from, to int) []model.Card {
	if from == to {
		return cards
	}
	moved := cards[from]
	out := make([]model.Card, 0, len(cards))
	out = append(out, cards[:from]...)
	out = append(out, cards[from+1:]...)
	out = append(out[:to], append([]model.Card{moved}, out[to:]...)...)
	return out
}
