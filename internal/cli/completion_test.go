package cli

import (
	"slices"
	"testing"

	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/testutil"
)

func TestBoardFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"long flag equals", []string{"lanes", "show", "--board=main", "card1"}, "main"},
		{"short flag equals", []string{"lanes", "show", "-b=feature", "card1"}, "feature"},
		{"long flag space", []string{"lanes", "show", "--board", "main", "card1"}, "main"},
		{"short flag space", []string{"lanes", "show", "-b", "feature", "card1"}, "feature"},
		{"no flag", []string{"lanes", "show", "card1"}, ""},
		{"nil args", nil, ""},
		{"empty args", []string{}, ""},
		{"long flag without value", []string{"lanes", "show", "--board=", "card1"}, ""},
		{"short flag without value", []string{"lanes", "show", "-b=", "card1"}, ""},
		{"flag is last arg", []string{"lanes", "show", "-b"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boardFromArgs(tt.args); got != tt.want {
				t.Errorf("boardFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPickBoard(t *testing.T) {
	boards := []model.Board{
		testutil.TestBoard("k3x9", "Roadmap"),
		testutil.TestBoard("p7q2", "Café Ops"),
		testutil.TestBoard("roadmap", "Other"),
	}

	tests := []struct {
		name   string
		ref    string
		wantID string
		wantOK bool
	}{
		{"empty picks first", "", "k3x9", true},
		{"exact id beats name", "roadmap", "roadmap", true},
		{"folded name", "cafe ops", "p7q2", true},
		{"id prefix", "p7", "p7q2", true},
		{"miss", "zzz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickBoard(boards, tt.ref)
			if ok != tt.wantOK || got.ID != tt.wantID {
				t.Errorf("pickBoard(%q) = %q, %v; want %q, %v", tt.ref, got.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}

	if _, ok := pickBoard(nil, ""); ok {
		t.Error("Expected no board from an empty collection")
	}
}

func TestCompleteColumns(t *testing.T) {
	got, _ := completeColumns("do")
	if !slices.Equal(got, []string{"doing", "done"}) {
		t.Errorf("completeColumns(do) = %v", got)
	}
	got, _ = completePriorities("")
	if !slices.Equal(got, []string{"low", "medium", "high"}) {
		t.Errorf("completePriorities() = %v", got)
	}
}
