package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	"github.com/amterp/lanes/testutil"
)

func TestBoardService_AddCard(t *testing.T) {
	svc, gw := setupBoardService(t, scenarioBoards())

	card, ok := svc.AddCard(AddCardInput{
		Title:       "Write docs",
		Priority:    model.PriorityHigh,
		Description: "all of them",
		SubTasks:    []model.SubTask{{Title: "outline"}, {ID: "keep", Title: "draft", Done: true}},
		TagID:       "A-tag-bug",
	})
	if !ok {
		t.Fatal("expected card to be added")
	}

	if card.Column != model.ColumnTodo {
		t.Errorf("expected todo column, got %q", card.Column)
	}
	if card.CreatedAt != testutil.FixedTime.UnixMilli() {
		t.Errorf("expected createdAt from clock, got %d", card.CreatedAt)
	}
	if card.Priority != model.PriorityHigh || card.Description != "all of them" || card.TagID != "A-tag-bug" {
		t.Errorf("fields not carried over: %+v", card)
	}
	if len(card.SubTasks) != 2 || card.SubTasks[0].ID == "" || card.SubTasks[1].ID != "keep" {
		t.Errorf("unexpected sub-tasks: %+v", card.SubTasks)
	}

	count := 0
	for _, c := range svc.Cards() {
		if c.ID == card.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected card exactly once, found %d", count)
	}
	if ids := cardIDs(svc.Cards()); ids[len(ids)-1] != card.ID {
		t.Errorf("expected card appended to sequence, got %v", ids)
	}
	if ids := cardIDs(persistedBoards(t, gw)[0].Cards); len(ids) != 4 {
		t.Errorf("expected 4 persisted cards, got %v", ids)
	}
}

func TestBoardService_AddCardUniqueIDs(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())

	seen := make(map[string]bool)
	for _, c := range svc.Cards() {
		seen[c.ID] = true
	}
	for i := 0; i < 10; i++ {
		card, _ := svc.AddCard(AddCardInput{Title: "same title"})
		if seen[card.ID] {
			t.Fatalf("duplicate card id %q", card.ID)
		}
		seen[card.ID] = true
		if card.Column != model.ColumnTodo {
			t.Errorf("card %d not in todo", i)
		}
	}
}

func TestBoardService_AddCardDefaultsPriority(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())
	card, _ := svc.AddCard(AddCardInput{Title: "t", Priority: "urgent"})
	if card.Priority != model.PriorityMedium {
		t.Errorf("expected medium for unknown priority, got %q", card.Priority)
	}
}

func TestBoardService_EditCard(t *testing.T) {
	svc, gw := setupBoardService(t, scenarioBoards())
	before, _ := svc.Card("X")

	svc.EditCard("X", CardUpdate{Title: ptr("renamed")})

	after, _ := svc.Card("X")
	if after.Title != "renamed" {
		t.Errorf("expected title change, got %q", after.Title)
	}
	after.Title = before.Title
	if !reflect.DeepEqual(before, after) {
		t.Errorf("partial update touched other fields: %+v vs %+v", before, after)
	}
	if persistedBoards(t, gw)[0].Cards[0].Title != "renamed" {
		t.Error("expected edit persisted")
	}
}

func TestBoardService_EditCardFields(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())

	svc.EditCard("X", CardUpdate{
		Description: ptr("desc"),
		Priority:    ptr(model.PriorityLow),
		Column:      ptr(model.ColumnDone),
		SubTasks:    ptr([]model.SubTask{{ID: "s1", Title: "one"}}),
		TagID:       ptr("A-tag-bug"),
	})
	c, _ := svc.Card("X")
	if c.Description != "desc" || c.Priority != model.PriorityLow || c.Column != model.ColumnDone ||
		len(c.SubTasks) != 1 || c.TagID != "A-tag-bug" {
		t.Errorf("update not applied: %+v", c)
	}

	svc.EditCard("X", CardUpdate{TagID: ptr(""), Column: ptr(model.Column("archive")), Priority: ptr(model.Priority("asap"))})
	c, _ = svc.Card("X")
	if c.TagID != "" {
		t.Errorf("expected tag cleared, got %q", c.TagID)
	}
	if c.Column != model.ColumnDone || c.Priority != model.PriorityLow {
		t.Errorf("invalid enum values must be ignored, got %q/%q", c.Column, c.Priority)
	}
}

func TestBoardService_EditCardAssignsSubTaskIDs(t *testing.T) {
	svc, gw := setupBoardService(t, scenarioBoards())

	svc.EditCard("X", CardUpdate{
		SubTasks: ptr([]model.SubTask{{Title: "a"}, {ID: "keep", Title: "b"}, {Title: "c"}}),
	})

	c, _ := svc.Card("X")
	if len(c.SubTasks) != 3 {
		t.Fatalf("expected 3 sub-tasks, got %+v", c.SubTasks)
	}
	if c.SubTasks[1].ID != "keep" {
		t.Errorf("existing id replaced: %+v", c.SubTasks[1])
	}
	seen := make(map[string]bool)
	for _, st := range c.SubTasks {
		if st.ID == "" {
			t.Errorf("sub-task %q stored without id", st.Title)
		}
		if seen[st.ID] {
			t.Errorf("duplicate sub-task id %q", st.ID)
		}
		seen[st.ID] = true
	}

	svc.ToggleSubTask("X", c.SubTasks[2].ID)
	c, _ = svc.Card("X")
	if c.SubTasks[0].Done || !c.SubTasks[2].Done {
		t.Errorf("toggle hit the wrong sub-task: %+v", c.SubTasks)
	}

	persisted := persistedBoards(t, gw)[0].FindCard("X")
	if persisted == nil || persisted.SubTasks[0].ID == "" {
		t.Errorf("persisted sub-tasks missing ids: %+v", persisted)
	}
}

func TestBoardService_EditCardMissingIsNoop(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())
	before := svc.Cards()
	svc.EditCard("nope", CardUpdate{Title: ptr("x")})
	if !reflect.DeepEqual(before, svc.Cards()) {
		t.Error("editing a missing card changed the board")
	}
}

func TestBoardService_RemoveCard(t *testing.T) {
	svc, gw := setupBoardService(t, scenarioBoards())

	svc.RemoveCard("Y")
	svc.RemoveCard("missing")

	if got := cardIDs(svc.Cards()); !reflect.DeepEqual(got, []string{"X", "Z"}) {
		t.Errorf("cards = %v, want [X Z]", got)
	}
	if got := cardIDs(persistedBoards(t, gw)[0].Cards); !reflect.DeepEqual(got, []string{"X", "Z"}) {
		t.Errorf("persisted cards = %v, want [X Z]", got)
	}
}

func TestBoardService_MoveCardChangesOnlyColumn(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())
	before := svc.Cards()

	svc.MoveCard("Y", model.ColumnDone)

	after := svc.Cards()
	if len(after) != len(before) {
		t.Fatalf("card count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		want := before[i]
		if want.ID == "Y" {
			want.Column = model.ColumnDone
		}
		if !reflect.DeepEqual(want, after[i]) {
			t.Errorf("card %d: got %+v, want %+v", i, after[i], want)
		}
	}
}

func TestBoardService_MoveCardInvalidColumn(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())
	svc.MoveCard("X", "blocked")
	if c, _ := svc.Card("X"); c.Column != model.ColumnTodo {
		t.Errorf("expected invalid column to be ignored, got %q", c.Column)
	}
}

func TestBoardService_MoveAndReorderScenario(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())

	svc.MoveCard("Y", model.ColumnDoing)

	if got := cardIDs(svc.Cards()); !reflect.DeepEqual(got, []string{"X", "Y", "Z"}) {
		t.Errorf("sequence = %v, want [X Y Z]", got)
	}
	if got := cardIDs(svc.CardsInColumn(model.ColumnTodo)); !reflect.DeepEqual(got, []string{"X"}) {
		t.Errorf("todo = %v, want [X]", got)
	}
	if got := cardIDs(svc.CardsInColumn(model.ColumnDoing)); !reflect.DeepEqual(got, []string{"Y", "Z"}) {
		t.Errorf("doing = %v, want [Y Z]", got)
	}

	svc.MoveCardToOrder("Z", "Y")

	if got := cardIDs(svc.CardsInColumn(model.ColumnDoing)); !reflect.DeepEqual(got, []string{"Z", "Y"}) {
		t.Errorf("doing after reorder = %v, want [Z Y]", got)
	}
	if got := cardIDs(svc.CardsInColumn(model.ColumnTodo)); !reflect.DeepEqual(got, []string{"X"}) {
		t.Errorf("todo after reorder = %v, want [X]", got)
	}
}

func TestBoardService_MoveCardToOrderIsPermutation(t *testing.T) {
	seed := []model.Board{testutil.TestBoard("A", "A",
		testutil.TestCard("a", "a", model.ColumnTodo),
		testutil.TestCard("d1", "d1", model.ColumnDoing),
		testutil.TestCard("b", "b", model.ColumnTodo),
		testutil.TestCard("c", "c", model.ColumnTodo),
		testutil.TestCard("d2", "d2", model.ColumnDoing),
	)}

	tests := []struct {
		name     string
		active   string
		over     string
		wantTodo []string
	}{
		{"down", "a", "c", []string{"b", "c", "a"}},
		{"up", "c", "a", []string{"c", "a", "b"}},
		{"adjacent", "b", "c", []string{"a", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupBoardService(t, seed)
			before := cardIDs(svc.Cards())

			svc.MoveCardToOrder(tt.active, tt.over)

			after := cardIDs(svc.Cards())
			if got := cardIDs(svc.CardsInColumn(model.ColumnTodo)); !reflect.DeepEqual(got, tt.wantTodo) {
				t.Errorf("todo = %v, want %v", got, tt.wantTodo)
			}
			if got := cardIDs(svc.CardsInColumn(model.ColumnDoing)); !reflect.DeepEqual(got, []string{"d1", "d2"}) {
				t.Errorf("other column disturbed: %v", got)
			}

			sort.Strings(before)
			sort.Strings(after)
			if !reflect.DeepEqual(before, after) {
				t.Errorf("not a permutation: %v vs %v", before, after)
			}
		})
	}
}

func TestBoardService_MoveCardToOrderNoops(t *testing.T) {
	tests := []struct {
		name   string
		active string
		over   string
	}{
		{"active missing", "nope", "X"},
		{"over missing", "X", "nope"},
		{"both missing", "nope", "nada"},
		{"same card", "X", "X"},
		{"different columns", "X", "Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupBoardService(t, scenarioBoards())
			before := svc.Cards()

			svc.MoveCardToOrder(tt.active, tt.over)

			if !reflect.DeepEqual(before, svc.Cards()) {
				t.Errorf("sequence changed: %v -> %v", cardIDs(before), cardIDs(svc.Cards()))
			}
		})
	}
}

func TestBoardService_ToggleSubTaskIsInvolution(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())
	st, ok := svc.AddSubTask("X", "check")
	if !ok {
		t.Fatal("expected sub-task to be added")
	}

	svc.ToggleSubTask("X", st.ID)
	if c, _ := svc.Card("X"); !c.SubTasks[0].Done {
		t.Fatal("expected sub-task done after one toggle")
	}

	svc.ToggleSubTask("X", st.ID)
	if c, _ := svc.Card("X"); c.SubTasks[0].Done {
		t.Error("expected original state after two toggles")
	}

	before := svc.Cards()
	svc.ToggleSubTask("X", "missing")
	svc.ToggleSubTask("missing", st.ID)
	if !reflect.DeepEqual(before, svc.Cards()) {
		t.Error("toggling a missing sub-task changed the board")
	}
}

func TestBoardService_SubTaskEditing(t *testing.T) {
	svc, gw := setupBoardService(t, scenarioBoards())

	first, _ := svc.AddSubTask("Y", "first")
	second, _ := svc.AddSubTask("Y", "second")
	if first.Done || first.ID == second.ID {
		t.Fatalf("unexpected sub-tasks: %+v %+v", first, second)
	}

	svc.EditSubTask("Y", first.ID, "first, renamed")
	svc.RemoveSubTask("Y", second.ID)

	c, _ := svc.Card("Y")
	if len(c.SubTasks) != 1 || c.SubTasks[0].Title != "first, renamed" {
		t.Errorf("unexpected sub-tasks: %+v", c.SubTasks)
	}
	if got := persistedBoards(t, gw)[0].Cards[1].SubTasks; len(got) != 1 {
		t.Errorf("expected sub-task edits persisted, got %+v", got)
	}

	if _, ok := svc.AddSubTask("missing", "x"); ok {
		t.Error("expected AddSubTask on missing card to report false")
	}
}

func TestBoardService_NoActiveBoardSkipsWrites(t *testing.T) {
	tests := []struct {
		name string
		op   func(svc *BoardService)
	}{
		{"edit card", func(svc *BoardService) { svc.EditCard("X", CardUpdate{Title: ptr("changed")}) }},
		{"remove card", func(svc *BoardService) { svc.RemoveCard("X") }},
		{"move card", func(svc *BoardService) { svc.MoveCard("X", model.ColumnDone) }},
		{"reorder card", func(svc *BoardService) { svc.MoveCardToOrder("Y", "X") }},
		{"toggle sub-task", func(svc *BoardService) { svc.ToggleSubTask("X", "X-st") }},
		{"add sub-task", func(svc *BoardService) { svc.AddSubTask("X", "step") }},
		{"edit sub-task", func(svc *BoardService) { svc.EditSubTask("X", "X-st", "renamed") }},
		{"remove sub-task", func(svc *BoardService) { svc.RemoveSubTask("X", "X-st") }},
		{"remove tag", func(svc *BoardService) { svc.RemoveTag("A-tag-bug") }},
		{"end drag", func(svc *BoardService) { svc.EndDrag("X", string(model.ColumnDone)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boards := scenarioBoards()
			boards[0].Cards[0].SubTasks = []model.SubTask{{ID: "X-st", Title: "step"}}
			svc, gw := setupBoardService(t, boards)
			svc.SelectBoard("missing")

			// Clear storage so any write shows up as a stored key.
			ctx := context.Background()
			if err := gw.Backend().Delete(ctx, model.DefaultStorageKey); err != nil {
				t.Fatalf("clearing storage: %v", err)
			}
			before := svc.Boards()

			tt.op(svc)

			if _, err := gw.Backend().Get(ctx, model.DefaultStorageKey); !errors.Is(err, store.ErrKeyNotFound) {
				t.Errorf("expected no write, storage read returned err=%v", err)
			}
			if !reflect.DeepEqual(before, svc.Boards()) {
				t.Error("expected in-memory boards unchanged")
			}
		})
	}
}
