package service

import "github.com/amterp/lanes/internal/model"

// DragOutcome reports what a drop did to the board.
type DragOutcome string

const (
	DragAborted   DragOutcome = "aborted"
	DragMoved     DragOutcome = "moved"
	DragReordered DragOutcome = "reordered"
)

// BeginDrag captures the dragged card so the caller can render it while
// the drag is in flight.
func (s *BoardService) BeginDrag(activeID string) (model.Card, bool) {
	return s.Card(activeID)
}

// EndDrag reconciles a drop of card activeID onto overID, which is either a
// column id or another card's id. An empty overID means the card was
// dropped outside any target.
//
// Dropping on a different column, or on a card in a different column,
// moves the card into that column. Dropping on a card in the same column
// reorders. Anything else is aborted.
func (s *BoardService) EndDrag(activeID, overID string) DragOutcome {
	if overID == "" || activeID == overID {
		return DragAborted
	}

	dragged, ok := s.Card(activeID)
	if !ok {
		return DragAborted
	}

	if col, isColumn := model.ParseColumn(overID); isColumn && string(col) == overID {
		if dragged.Column == col {
			return DragAborted
		}
		s.MoveCard(activeID, col)
		return DragMoved
	}

	over, ok := s.Card(overID)
	if !ok {
		return DragAborted
	}
	if over.Column != dragged.Column {
		s.MoveCard(activeID, over.Column)
		return DragMoved
	}
	s.MoveCardToOrder(activeID, overID)
	return DragReordered
}
