package service

import (
	"context"
	"testing"

	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	"github.com/amterp/lanes/testutil"
)

func setupDoctor(t *testing.T, raw string) (*DoctorService, *store.Gateway) {
	t.Helper()
	gw, backend := testutil.MemoryGateway()
	if raw != "" {
		if err := backend.Set(context.Background(), model.DefaultStorageKey, []byte(raw)); err != nil {
			t.Fatalf("seeding backend: %v", err)
		}
	}
	return NewDoctorService(gw, testutil.NewSeqIDs("fix-"), ""), gw
}

func issueCodes(report *DiagnosticReport) map[string]int {
	codes := make(map[string]int)
	for _, issue := range report.Issues {
		codes[issue.Code]++
	}
	return codes
}

func TestDoctor_EmptyStorage(t *testing.T) {
	doctor, _ := setupDoctor(t, "")

	report, err := doctor.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if !report.Empty || len(report.Issues) != 0 {
		t.Errorf("expected empty clean report, got %+v", report)
	}
	if report.Backend != "memory" || report.Key != model.DefaultStorageKey {
		t.Errorf("unexpected report header: %q %q", report.Backend, report.Key)
	}
}

func TestDoctor_HealthyBoards(t *testing.T) {
	doctor, gw := setupDoctor(t, "")
	svc := NewBoardService(gw, testutil.NewSeqIDs("ok-"), WithClock(testutil.FixedClock))
	svc.Load(context.Background())
	card, _ := svc.AddCard(AddCardInput{Title: "fine"})
	svc.AddSubTask(card.ID, "step")

	report, err := doctor.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if len(report.Issues) != 0 {
		t.Errorf("expected no issues, got %+v", report.Issues)
	}
	if len(report.Boards) != 1 || report.Boards[0].Cards != 1 || report.Boards[0].Tags != 9 {
		t.Errorf("unexpected board stats: %+v", report.Boards)
	}
}

func TestDoctor_UnreadableData(t *testing.T) {
	doctor, _ := setupDoctor(t, `[{"id": "b1",`)

	report, err := doctor.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if issueCodes(report)[CodeUnreadableData] != 1 || !report.HasErrors() {
		t.Errorf("expected unreadable data error, got %+v", report.Issues)
	}
}

func TestDoctor_SchemaViolation(t *testing.T) {
	doctor, _ := setupDoctor(t, `[{"id": "b1", "name": "no cards"}, {"id": "", "name": "x", "cards": [{"id": "c"}]}]`)

	report, err := doctor.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	codes := issueCodes(report)
	if codes[CodeSchemaViolation] == 0 || len(codes) != 1 {
		t.Errorf("expected only schema violations, got %v", codes)
	}
	if report.Summary.Errors != len(report.Issues) {
		t.Errorf("expected every schema issue to be an error, got %+v", report.Summary)
	}
}

const brokenBoardsJSON = `[
  {
    "id": "b1",
    "name": "Broken",
    "availableTags": [
      {"id": "t1", "name": "Bug", "color": "#ef4444"},
      {"id": "t1", "name": "Also bug", "color": "#f97316"}
    ],
    "cards": [
      {"id": "c1", "title": "bad", "priority": "asap", "column": "archive", "createdAt": 1, "tagId": "gone"},
      {"id": "c1", "title": "twin", "priority": "low", "column": "done", "createdAt": 2, "subTasks": []}
    ]
  },
  {
    "id": "b2",
    "name": "Legacy",
    "availableTags": [{"id": "t1", "name": "Bug", "color": "#ef4444"}],
    "cards": [
      {"id": "c3", "title": "old", "priority": "high", "column": "todo", "createdAt": 3, "subTasks": [],
       "tags": [{"id": "t1", "name": "Bug", "color": "#ef4444"}]}
    ]
  },
  {"id": "b3", "name": "Untagged", "cards": []}
]`

func TestDoctor_DetectsInvariantViolations(t *testing.T) {
	doctor, _ := setupDoctor(t, brokenBoardsJSON)

	report, err := doctor.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}

	want := map[string]int{
		CodeDuplicateTagID:  1,
		CodeInvalidColumn:   1,
		CodeInvalidPriority: 1,
		CodeMissingSubTasks: 1,
		CodeDanglingTagRef:  1,
		CodeDuplicateCardID: 1,
		CodeLegacyTags:      1,
		CodeMissingTags:     1,
	}
	got := issueCodes(report)
	for code, n := range want {
		if got[code] != n {
			t.Errorf("%s: got %d issues, want %d", code, got[code], n)
		}
	}
	if len(report.Issues) != 8 {
		t.Errorf("expected 8 issues, got %+v", report.Issues)
	}
	if report.Summary.Errors != 4 || report.Summary.Warnings != 4 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}
}

func TestDoctor_Fix(t *testing.T) {
	doctor, gw := setupDoctor(t, brokenBoardsJSON)
	ctx := context.Background()

	report, err := doctor.Diagnose(ctx)
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	fixed, err := doctor.Fix(ctx, report)
	if err != nil {
		t.Fatalf("Fix failed: %v", err)
	}
	if fixed.Summary.Fixed != 8 || len(fixed.Issues) != 0 {
		t.Errorf("expected all 8 issues fixed, got %+v", fixed)
	}

	again, err := doctor.Diagnose(ctx)
	if err != nil {
		t.Fatalf("second Diagnose failed: %v", err)
	}
	if len(again.Issues) != 0 {
		t.Errorf("expected a clean report after fixing, got %+v", again.Issues)
	}

	boards := persistedBoards(t, gw)
	c1 := boards[0].Cards[0]
	if c1.Column != model.ColumnTodo || c1.Priority != model.PriorityMedium || c1.TagID != "" {
		t.Errorf("card not repaired: %+v", c1)
	}
	if boards[0].Cards[1].ID == "c1" {
		t.Error("expected the later duplicate card to get a fresh id")
	}
	if boards[1].Cards[0].TagID != "t1" {
		t.Errorf("expected legacy tag kept as tagId, got %q", boards[1].Cards[0].TagID)
	}
	if len(boards[2].AvailableTags) != 9 {
		t.Errorf("expected starter tags seeded, got %d", len(boards[2].AvailableTags))
	}
}

func TestDoctor_FixTargetsDuplicatesByPosition(t *testing.T) {
	doctor, gw := setupDoctor(t, `[
	  {"id": "b1", "name": "One", "availableTags": [], "cards": [
	    {"id": "c1", "title": "first", "priority": "low", "column": "done", "createdAt": 1, "subTasks": []},
	    {"id": "c1", "title": "second", "priority": "low", "column": "bogus", "createdAt": 2, "subTasks": []}
	  ]},
	  {"id": "b1", "name": "Two", "cards": []}
	]`)
	ctx := context.Background()

	report, err := doctor.Diagnose(ctx)
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	fixed, err := doctor.Fix(ctx, report)
	if err != nil {
		t.Fatalf("Fix failed: %v", err)
	}
	if fixed.Summary.FixFailed != 0 || len(fixed.Issues) != 0 {
		t.Fatalf("expected every issue fixed, got %+v", fixed)
	}

	boards := persistedBoards(t, gw)
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(boards))
	}

	first, second := boards[0].Cards[0], boards[0].Cards[1]
	if first.ID != "c1" || first.Column != model.ColumnDone {
		t.Errorf("healthy card was modified: %+v", first)
	}
	if second.ID == "c1" || second.Column != model.ColumnTodo {
		t.Errorf("broken duplicate not repaired: %+v", second)
	}

	if boards[0].ID != "b1" || len(boards[0].AvailableTags) != 0 {
		t.Errorf("healthy board was modified: %+v", boards[0])
	}
	if boards[1].ID == "b1" || len(boards[1].AvailableTags) != 9 {
		t.Errorf("duplicate board not repaired: id=%s tags=%d", boards[1].ID, len(boards[1].AvailableTags))
	}

	again, _ := doctor.Diagnose(ctx)
	if len(again.Issues) != 0 {
		t.Errorf("expected a clean report after fixing, got %+v", again.Issues)
	}
}

func TestDoctor_FixRejectsStaleContext(t *testing.T) {
	doctor, _ := setupDoctor(t, `[{"id": "b1", "name": "B", "availableTags": [], "cards": []}]`)

	report := &DiagnosticReport{Issues: []Issue{{
		Severity:   SeverityError,
		Code:       CodeInvalidColumn,
		BoardID:    "b1",
		CardID:     "c9",
		Fixable:    true,
		FixContext: map[string]string{"board": "0", "card": "4"},
	}}}
	fixed, err := doctor.Fix(context.Background(), report)
	if err != nil {
		t.Fatalf("Fix failed: %v", err)
	}
	if fixed.Summary.FixFailed != 1 || fixed.Issues[0].FixError == "" {
		t.Errorf("expected the fix to fail on a missing position, got %+v", fixed)
	}
}

func TestDoctor_DuplicateSubTaskIsReportedOnly(t *testing.T) {
	doctor, _ := setupDoctor(t, `[{"id": "b1", "name": "B", "availableTags": [], "cards": [
	  {"id": "c1", "title": "t", "priority": "low", "column": "todo", "createdAt": 1,
	   "subTasks": [{"id": "s", "title": "a", "done": false}, {"id": "s", "title": "b", "done": true}]}
	]}]`)
	ctx := context.Background()

	report, _ := doctor.Diagnose(ctx)
	if issueCodes(report)[CodeDuplicateSubTask] != 1 {
		t.Fatalf("expected duplicate sub-task warning, got %+v", report.Issues)
	}

	fixed, _ := doctor.Fix(ctx, report)
	if fixed.Summary.Fixed != 0 || len(fixed.Issues) != 1 {
		t.Errorf("expected the warning to remain unfixed, got %+v", fixed)
	}
}
