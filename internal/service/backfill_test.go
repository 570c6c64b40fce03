package service

import (
	"context"
	"testing"

	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	"github.com/amterp/lanes/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const legacyBoardsJSON = `[
  {
    "id": "old",
    "name": "Old board",
    "cards": [
      {
        "id": "c1",
        "title": "multi-tagged",
        "priority": "high",
        "column": "doing",
        "createdAt": 1700000000000,
        "tags": [{"id": "t1", "name": "Bug", "color": "#ef4444"}, {"id": "t2", "name": "UI", "color": "#3b82f6"}]
      },
      {
        "id": "c2",
        "title": "odd enums",
        "priority": "urgent",
        "column": "archive",
        "createdAt": 1700000000000,
        "subTasks": [{"id": "s1", "title": "keep me", "done": true}],
        "tagId": "t9",
        "tags": [{"id": "t1", "name": "Bug", "color": "#ef4444"}]
      }
    ]
  }
]`

func loadLegacy(t *testing.T) (*BoardService, *store.Gateway, *test.Hook) {
	t.Helper()
	gw, backend := testutil.MemoryGateway()
	if err := backend.Set(context.Background(), model.DefaultStorageKey, []byte(legacyBoardsJSON)); err != nil {
		t.Fatalf("seeding backend: %v", err)
	}
	logger, hook := test.NewNullLogger()
	svc := NewBoardService(gw, testutil.NewSeqIDs("bf-"), WithClock(testutil.FixedClock), WithLogger(logger))
	svc.Load(context.Background())
	return svc, gw, hook
}

func TestBackfill_LegacyShapes(t *testing.T) {
	svc, _, hook := loadLegacy(t)

	b, ok := svc.ActiveBoard()
	if !ok || b.ID != "old" {
		t.Fatalf("expected legacy board active, got %+v", b)
	}
	if len(b.AvailableTags) != len(model.DefaultTags(func() string { return "" })) {
		t.Errorf("expected starter tags for a board without availableTags, got %d", len(b.AvailableTags))
	}

	c1 := b.Cards[0]
	if c1.TagID != "t1" {
		t.Errorf("expected first legacy tag to become tagId, got %q", c1.TagID)
	}
	if c1.LegacyTags != nil {
		t.Errorf("expected legacy tags dropped, got %+v", c1.LegacyTags)
	}
	if c1.SubTasks == nil || len(c1.SubTasks) != 0 {
		t.Errorf("expected empty sub-task list, got %#v", c1.SubTasks)
	}

	c2 := b.Cards[1]
	if c2.TagID != "t9" {
		t.Errorf("expected existing tagId to win over legacy tags, got %q", c2.TagID)
	}
	if c2.Column != model.ColumnTodo || c2.Priority != model.PriorityMedium {
		t.Errorf("expected todo/medium fallbacks, got %q/%q", c2.Column, c2.Priority)
	}
	if len(c2.SubTasks) != 1 || !c2.SubTasks[0].Done {
		t.Errorf("expected sub-tasks preserved, got %+v", c2.SubTasks)
	}

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["card_id"] == "c2" {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning for the invalid column")
	}
}

func TestBackfill_NotPersistedUntilMutation(t *testing.T) {
	svc, gw, _ := loadLegacy(t)

	raw, _ := gw.Raw(context.Background(), model.DefaultStorageKey)
	if string(raw) != legacyBoardsJSON {
		t.Fatal("expected load to leave stored data untouched")
	}

	svc.EditBoard("old", "Renamed")

	persisted := persistedBoards(t, gw)
	if persisted[0].Cards[0].TagID != "t1" || persisted[0].Cards[0].LegacyTags != nil {
		t.Errorf("expected normalized card persisted, got %+v", persisted[0].Cards[0])
	}
	if persisted[0].AvailableTags == nil {
		t.Error("expected backfilled tags persisted")
	}
}
