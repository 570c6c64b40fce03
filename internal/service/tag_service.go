package service

import (
	"math/rand/v2"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/util"
)

// AvailableTags returns the active board's tags.
func (s *BoardService) AvailableTags() []model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.active(); b != nil {
		return append([]model.Tag{}, b.AvailableTags...)
	}
	return []model.Tag{}
}

// FindTagByName returns the active board's first tag whose name matches
// name ignoring case and accents.
func (s *BoardService) FindTagByName(name string) (model.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.active(); b != nil {
		for _, t := range b.AvailableTags {
			if util.SameName(t.Name, name) {
				return t, true
			}
		}
	}
	return model.Tag{}, false
}

// AddTag appends a new tag with a random palette color to the active board
// and returns it. Names are not deduplicated; see FindTagByName.
func (s *BoardService) AddTag(name string) (model.Tag, error) {
	var tag model.Tag
	var err error
	s.mutate(func() (Change, bool) {
		b := s.active()
		if b == nil {
			err = &lnerr.NoActiveBoardError{ActiveID: s.activeBoardID}
			return Change{}, false
		}
		tag = model.Tag{
			ID:    s.ids.Generate(),
			Name:  name,
			Color: model.TagColors[s.intN(len(model.TagColors))],
		}
		b.AvailableTags = append(b.AvailableTags, tag)
		return Change{Op: OpTagAdded, BoardID: b.ID}, true
	})
	return tag, err
}

// RemoveTag deletes a tag from the active board. Cards that reference it
// keep the dangling id.
func (s *BoardService) RemoveTag(tagID string) {
	s.mutateActive(func(b *model.Board) Change {
		if i := b.TagIndex(tagID); i >= 0 {
			b.AvailableTags = append(b.AvailableTags[:i], b.AvailableTags[i+1:]...)
		}
		return Change{Op: OpTagRemoved}
	})
}

func (s *BoardService) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}
