package service

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/testutil"
)

func TestBoardService_AddTag(t *testing.T) {
	svc, gw := setupBoardService(t, scenarioBoards())

	tag, err := svc.AddTag("Urgent")
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	if tag.Name != "Urgent" || tag.ID == "" {
		t.Errorf("unexpected tag: %+v", tag)
	}
	if !slices.Contains(model.TagColors, tag.Color) {
		t.Errorf("color %q not from palette", tag.Color)
	}

	tags := svc.AvailableTags()
	if tags[len(tags)-1] != tag {
		t.Errorf("expected tag appended, got %+v", tags)
	}
	persisted := persistedBoards(t, gw)[0].AvailableTags
	if persisted[len(persisted)-1] != tag {
		t.Errorf("expected tag persisted, got %+v", persisted)
	}
}

func TestBoardService_AddTagDoesNotDedupe(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())

	first, _ := svc.AddTag("Urgent")
	second, _ := svc.AddTag("Urgent")

	if first.ID == second.ID {
		t.Error("expected distinct ids for repeated names")
	}
	n := 0
	for _, tag := range svc.AvailableTags() {
		if tag.Name == "Urgent" {
			n++
		}
	}
	if n != 2 {
		t.Errorf("expected 2 Urgent tags, got %d", n)
	}
}

func TestBoardService_AddTagWithoutActiveBoard(t *testing.T) {
	svc, gw := setupBoardService(t, scenarioBoards())
	svc.SelectBoard("missing")

	_, err := svc.AddTag("Urgent")
	if !lnerr.IsNoActiveBoard(err) {
		t.Fatalf("expected no-active-board error, got %v", err)
	}
	if n := len(persistedBoards(t, gw)[0].AvailableTags); n != 1 {
		t.Errorf("expected no tag persisted, got %d tags", n)
	}
}

func TestBoardService_AddTagUsesRandSource(t *testing.T) {
	gw, _ := testutil.MemoryGateway()
	pick := func(seed uint64) string {
		svc := NewBoardService(gw, testutil.NewSeqIDs("r-"), WithRand(rand.New(rand.NewPCG(seed, seed))))
		svc.Load(context.Background())
		tag, err := svc.AddTag("t")
		if err != nil {
			t.Fatalf("AddTag failed: %v", err)
		}
		return tag.Color
	}
	if pick(42) != pick(42) {
		t.Error("expected the same seed to pick the same color")
	}
}

func TestBoardService_FindTagByName(t *testing.T) {
	svc, _ := setupBoardService(t, nil)

	tag, ok := svc.FindTagByName("  bug ")
	if !ok || tag.Name != "Bug" {
		t.Errorf("expected folded match on starter tag, got %+v, %v", tag, ok)
	}
	if _, ok := svc.FindTagByName("Nope"); ok {
		t.Error("expected no match")
	}
}

func TestBoardService_RemoveTagLeavesDanglingReference(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())
	svc.EditCard("X", CardUpdate{TagID: ptr("A-tag-bug")})

	svc.RemoveTag("A-tag-bug")

	if len(svc.AvailableTags()) != 0 {
		t.Errorf("expected tag removed, got %+v", svc.AvailableTags())
	}
	card, _ := svc.Card("X")
	if card.TagID != "A-tag-bug" {
		t.Errorf("expected card to keep its tag id, got %q", card.TagID)
	}

	board, _ := svc.ActiveBoard()
	shown, ok := board.TagFor(card)
	if !ok || shown.Name != model.RemovedTagName || shown.Color != model.RemovedTagColor {
		t.Errorf("expected removed-tag placeholder, got %+v", shown)
	}
}
