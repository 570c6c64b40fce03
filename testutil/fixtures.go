package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	"github.com/sirupsen/logrus/hooks/test"
)

// FixedTime is the instant returned by FixedClock.
var FixedTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// FixedClock always reports FixedTime.
func FixedClock() time.Time {
	return FixedTime
}

// SeqIDs hands out predictable ids: "<prefix>1", "<prefix>2", ...
type SeqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSeqIDs(prefix string) *SeqIDs {
	return &SeqIDs{prefix: prefix}
}

func (s *SeqIDs) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", s.prefix, s.n)
}

// TestCard returns a card with sensible test defaults.
func TestCard(id, title string, col model.Column) model.Card {
	return model.Card{
		ID:        id,
		Title:     title,
		Priority:  model.PriorityMedium,
		Column:    col,
		CreatedAt: FixedTime.UnixMilli(),
		SubTasks:  []model.SubTask{},
	}
}

// TestBoard returns a board holding cards, with a single "Bug" tag.
func TestBoard(id, name string, cards ...model.Card) model.Board {
	if cards == nil {
		cards = []model.Card{}
	}
	return model.Board{
		ID:            id,
		Name:          name,
		Cards:         cards,
		AvailableTags: []model.Tag{{ID: id + "-tag-bug", Name: "Bug", Color: "#ef4444"}},
	}
}

// MemoryGateway returns a gateway over a fresh in-memory backend.
func MemoryGateway() (*store.Gateway, *store.MemoryBackend) {
	backend := store.NewMemoryBackend()
	logger, _ := test.NewNullLogger()
	return store.NewGateway(backend, store.WithLogger(logger)), backend
}

// SeedBoards writes boards to backend under key as the store would.
func SeedBoards(t *testing.T, gw *store.Gateway, key string, boards []model.Board) {
	t.Helper()
	gw.Save(context.Background(), key, boards)
}

// TempDataFile returns a path for a file backend inside a temp dir.
func TempDataFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "lanes", "storage.json")
}
