package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/amterp/lanes/internal/id"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	log "github.com/sirupsen/logrus"
)

// Change ops reported to subscribers.
const (
	OpReload         = "reload"
	OpBoardAdded     = "board.added"
	OpBoardSelected  = "board.selected"
	OpBoardEdited    = "board.edited"
	OpBoardDeleted   = "board.deleted"
	OpCardAdded      = "card.added"
	OpCardEdited     = "card.edited"
	OpCardRemoved    = "card.removed"
	OpCardMoved      = "card.moved"
	OpCardReordered  = "card.reordered"
	OpSubTaskAdded   = "subtask.added"
	OpSubTaskEdited  = "subtask.edited"
	OpSubTaskToggled = "subtask.toggled"
	OpSubTaskRemoved = "subtask.removed"
	OpTagAdded       = "tag.added"
	OpTagRemoved     = "tag.removed"
)

// Change describes a mutation that has been applied and persisted.
type Change struct {
	Op      string `json:"type"`
	BoardID string `json:"board_id,omitempty"`
	CardID  string `json:"card_id,omitempty"`
}

// State is a snapshot of everything the store owns.
type State struct {
	Boards        []model.Board `json:"boards"`
	ActiveBoardID string        `json:"active_board_id"`
}

// BoardService owns the board collection and the active board selection.
// Every mutation is written through to storage before it returns.
//
// Operations on missing ids, or that need an active board when none is
// selected, are silent no-ops. AddTag is the only operation that reports
// a missing active board.
type BoardService struct {
	mu            sync.Mutex
	gateway       *store.Gateway
	ids           id.Generator
	now           func() time.Time
	rng           *rand.Rand
	logger        log.FieldLogger
	key           string
	defaultName   string
	boards        []model.Board
	activeBoardID string
	subscribers   map[int]func(Change)
	nextSubID     int
}

// Option configures a BoardService.
type Option func(*BoardService)

// WithClock overrides the time source used for card creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *BoardService) { s.now = now }
}

// WithLogger sets the logger for load and persistence diagnostics.
func WithLogger(logger log.FieldLogger) Option {
	return func(s *BoardService) { s.logger = logger }
}

// WithStorageKey sets the key the board collection is stored under.
func WithStorageKey(key string) Option {
	return func(s *BoardService) { s.key = key }
}

// WithDefaultBoardName names the board synthesized when storage is empty.
func WithDefaultBoardName(name string) Option {
	return func(s *BoardService) { s.defaultName = name }
}

// WithRand sets the source used to pick tag colors.
func WithRand(r *rand.Rand) Option {
	return func(s *BoardService) { s.rng = r }
}

// NewBoardService creates an empty service. Call Load before use.
func NewBoardService(gateway *store.Gateway, ids id.Generator, opts ...Option) *BoardService {
	s := &BoardService{
		gateway:     gateway,
		ids:         ids,
		now:         time.Now,
		logger:      log.StandardLogger(),
		key:         model.DefaultStorageKey,
		defaultName: model.DefaultBoardName,
		boards:      []model.Board{},
		subscribers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load adopts the persisted board collection. The first stored board
// becomes active; the previous selection is not remembered. With nothing
// stored, a default board is created and saved.
func (s *BoardService) Load(ctx context.Context) {
	s.mu.Lock()
	boards := store.Load(ctx, s.gateway, s.key, []model.Board(nil))
	s.boards = s.backfill(boards)
	created := false
	if len(s.boards) == 0 {
		s.boards = []model.Board{s.newBoard(s.defaultName)}
		created = true
	}
	s.activeBoardID = s.boards[0].ID
	if created {
		s.save(ctx)
	}
	subs := s.subscriberList()
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{"boards": len(boards), "created_default": created}).Debug("board store loaded")
	notify(subs, Change{Op: OpReload})
}

// Reload re-reads storage after an external write. The active board is
// kept when it still exists, otherwise the first board becomes active.
// Unlike Load, an empty result is adopted as-is. The read happens under the
// store lock so a concurrent mutation is never overwritten by older data.
func (s *BoardService) Reload(ctx context.Context) {
	s.mu.Lock()
	boards := store.Load(ctx, s.gateway, s.key, []model.Board(nil))
	s.boards = s.backfill(boards)
	if s.boardIndex(s.activeBoardID) < 0 {
		s.activeBoardID = ""
		if len(s.boards) > 0 {
			s.activeBoardID = s.boards[0].ID
		}
	}
	subs := s.subscriberList()
	s.mu.Unlock()

	notify(subs, Change{Op: OpReload})
}

// Subscribe registers fn to be called after every applied change. Calls
// happen outside the store lock, so fn may read from the service.
func (s *BoardService) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subID := s.nextSubID
	s.nextSubID++
	s.subscribers[subID] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, subID)
	}
}

// State returns a deep copy of the boards and the active board id.
func (s *BoardService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Boards: model.CloneBoards(s.boards), ActiveBoardID: s.activeBoardID}
}

// Boards returns a deep copy of the board collection in stored order.
func (s *BoardService) Boards() []model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneBoards(s.boards)
}

// ActiveBoardID returns the selected id, which may not match any board.
func (s *BoardService) ActiveBoardID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeBoardID
}

// ActiveBoard returns the board matching the active id.
func (s *BoardService) ActiveBoard() (model.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.active(); b != nil {
		return b.Clone(), true
	}
	return model.Board{}, false
}

// Board returns the board with the given id.
func (s *BoardService) Board(boardID string) (model.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.boardIndex(boardID); i >= 0 {
		return s.boards[i].Clone(), true
	}
	return model.Board{}, false
}

// AddBoard creates an empty board seeded with the default tags, appends it
// and makes it active. The name is not validated.
func (s *BoardService) AddBoard(name string) model.Board {
	var board model.Board
	s.mutate(func() (Change, bool) {
		board = s.newBoard(name)
		s.boards = append(s.boards, board)
		s.activeBoardID = board.ID
		return Change{Op: OpBoardAdded, BoardID: board.ID}, true
	})
	return board.Clone()
}

// SelectBoard sets the active board id without checking that it exists.
// Selection is not persisted.
func (s *BoardService) SelectBoard(boardID string) {
	s.mu.Lock()
	s.activeBoardID = boardID
	subs := s.subscriberList()
	s.mu.Unlock()

	notify(subs, Change{Op: OpBoardSelected, BoardID: boardID})
}

// EditBoard renames the matching board.
func (s *BoardService) EditBoard(boardID, name string) {
	s.mutate(func() (Change, bool) {
		if i := s.boardIndex(boardID); i >= 0 {
			s.boards[i].Name = name
		}
		return Change{Op: OpBoardEdited, BoardID: boardID}, true
	})
}

// DeleteBoard removes the matching board with its cards and tags. If it
// was active, the first remaining board (or none) becomes active.
func (s *BoardService) DeleteBoard(boardID string) {
	s.mutate(func() (Change, bool) {
		i := s.boardIndex(boardID)
		if i >= 0 {
			s.boards = append(s.boards[:i], s.boards[i+1:]...)
		}
		if s.activeBoardID == boardID {
			s.activeBoardID = ""
			if len(s.boards) > 0 {
				s.activeBoardID = s.boards[0].ID
			}
		}
		return Change{Op: OpBoardDeleted, BoardID: boardID}, true
	})
}

// mutate runs fn under the lock. When fn reports the change as applied,
// the collection is saved and subscribers are notified after unlocking.
func (s *BoardService) mutate(fn func() (Change, bool)) {
	s.mu.Lock()
	change, applied := fn()
	if applied {
		s.save(context.Background())
	}
	subs := s.subscriberList()
	s.mu.Unlock()

	if applied {
		notify(subs, change)
	}
}

// mutateActive is mutate for operations scoped to the active board. With
// no active board nothing runs and nothing is saved.
func (s *BoardService) mutateActive(fn func(b *model.Board) Change) {
	s.mutate(func() (Change, bool) {
		b := s.active()
		if b == nil {
			return Change{}, false
		}
		change := fn(b)
		change.BoardID = b.ID
		return change, true
	})
}

func (s *BoardService) save(ctx context.Context) {
	s.gateway.Save(ctx, s.key, s.boards)
}

func (s *BoardService) active() *model.Board {
	if i := s.boardIndex(s.activeBoardID); i >= 0 {
		return &s.boards[i]
	}
	return nil
}

func (s *BoardService) boardIndex(boardID string) int {
	if boardID == "" {
		return -1
	}
	for i := range s.boards {
		if s.boards[i].ID == boardID {
			return i
		}
	}
	return -1
}

func (s *BoardService) newBoard(name string) model.Board {
	return model.Board{
		ID:            s.ids.Generate(),
		Name:          name,
		Cards:         []model.Card{},
		AvailableTags: model.DefaultTags(s.ids.Generate),
	}
}

func (s *BoardService) subscriberList() []func(Change) {
	subs := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Change), change Change) {
	for _, fn := range subs {
		fn(change)
	}
}
