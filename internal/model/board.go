package model

// Board is the top-level persisted entity. Cards holds the global card
// order; a column's view is the cards filtered by Column, keeping this order.
type Board struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Cards         []Card `json:"cards"`
	AvailableTags []Tag  `json:"availableTags"`
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := b
	if b.Cards != nil {
		out.Cards = make([]Card, len(b.Cards))
		for i, c := range b.Cards {
			out.Cards[i] = c.Clone()
		}
	}
	if b.AvailableTags != nil {
		out.AvailableTags = make([]Tag, len(b.AvailableTags))
		copy(out.AvailableTags, b.AvailableTags)
	}
	return out
}

// CardIndex returns the position of the card in the board's sequence, or -1.
func (b *Board) CardIndex(id string) int {
	for i := range b.Cards {
		if b.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCard returns a pointer into the board's card sequence, or nil.
func (b *Board) FindCard(id string) *Card {
	if i := b.CardIndex(id); i >= 0 {
		return &b.Cards[i]
	}
	return nil
}

// CardsInColumn derives a column view by filtering the card sequence.
func (b *Board) CardsInColumn(col Column) []Card {
	out := []Card{}
	for _, c := range b.Cards {
		if c.Column == col {
			out = append(out, c.Clone())
		}
	}
	return out
}

// TagIndex returns the position of the tag in AvailableTags, or -1.
func (b *Board) TagIndex(id string) int {
	for i := range b.AvailableTags {
		if b.AvailableTags[i].ID == id {
			return i
		}
	}
	return -1
}

// FindTag looks up a tag by id. Cards reference tags weakly, so callers
// must handle a miss.
func (b *Board) FindTag(id string) (Tag, bool) {
	if i := b.TagIndex(id); i >= 0 {
		return b.AvailableTags[i], true
	}
	return Tag{}, false
}

// TagFor resolves a card's tag for display, substituting a placeholder
// when the card points at a tag that no longer exists.
func (b *Board) TagFor(c Card) (Tag, bool) {
	if c.TagID == "" {
		return Tag{}, false
	}
	if tag, ok := b.FindTag(c.TagID); ok {
		return tag, true
	}
	return Tag{ID: c.TagID, Name: RemovedTagName, Color: RemovedTagColor}, true
}

// CloneBoards deep-copies a board collection.
func CloneBoards(boards []Board) []Board {
	out := make([]Board, len(boards))
	for i, b := range boards {
		out[i] = b.Clone()
	}
	return out
}
