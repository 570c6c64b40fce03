package service

import (
	"reflect"
	"testing"

	"github.com/amterp/lanes/internal/model"
)

func TestBoardService_BeginDrag(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())

	card, ok := svc.BeginDrag("Y")
	if !ok || card.ID != "Y" {
		t.Errorf("expected dragged card Y, got %+v, %v", card, ok)
	}
	if _, ok := svc.BeginDrag("missing"); ok {
		t.Error("expected no card for a missing id")
	}
}

func TestBoardService_EndDrag(t *testing.T) {
	tests := []struct {
		name      string
		active    string
		over      string
		want      DragOutcome
		wantTodo  []string
		wantDoing []string
	}{
		{"dropped outside", "X", "", DragAborted, []string{"X", "Y"}, []string{"Z"}},
		{"dropped on itself", "X", "X", DragAborted, []string{"X", "Y"}, []string{"Z"}},
		{"missing card", "nope", "doing", DragAborted, []string{"X", "Y"}, []string{"Z"}},
		{"unknown target", "X", "nope", DragAborted, []string{"X", "Y"}, []string{"Z"}},
		{"own column", "X", "todo", DragAborted, []string{"X", "Y"}, []string{"Z"}},
		{"other column", "X", "doing", DragMoved, []string{"Y"}, []string{"X", "Z"}},
		{"card in other column", "Y", "Z", DragMoved, []string{"X"}, []string{"Y", "Z"}},
		{"card in same column", "Y", "X", DragReordered, []string{"Y", "X"}, []string{"Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupBoardService(t, scenarioBoards())

			if got := svc.EndDrag(tt.active, tt.over); got != tt.want {
				t.Errorf("outcome = %q, want %q", got, tt.want)
			}
			if got := cardIDs(svc.CardsInColumn(model.ColumnTodo)); !reflect.DeepEqual(got, tt.wantTodo) {
				t.Errorf("todo = %v, want %v", got, tt.wantTodo)
			}
			if got := cardIDs(svc.CardsInColumn(model.ColumnDoing)); !reflect.DeepEqual(got, tt.wantDoing) {
				t.Errorf("doing = %v, want %v", got, tt.wantDoing)
			}
		})
	}
}

func TestBoardService_EndDragColumnIDIsExact(t *testing.T) {
	svc, _ := setupBoardService(t, scenarioBoards())

	if got := svc.EndDrag("X", "DOING"); got != DragAborted {
		t.Errorf("expected a non-matching target to abort, got %q", got)
	}
	if c, _ := svc.Card("X"); c.Column != model.ColumnTodo {
		t.Errorf("expected X to stay in todo, got %q", c.Column)
	}
}
