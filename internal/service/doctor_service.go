package service

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/amterp/lanes/internal/id"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/store"
	"github.com/bytedance/sonic"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Priority 1: Unusable data (errors)
	CodeUnreadableData  = "UNREADABLE_DATA"
	CodeSchemaViolation = "SCHEMA_VIOLATION"

	// Priority 2: Broken invariants (errors)
	CodeDuplicateBoardID = "DUPLICATE_BOARD_ID"
	CodeDuplicateCardID  = "DUPLICATE_CARD_ID"
	CodeDuplicateTagID   = "DUPLICATE_TAG_ID"
	CodeInvalidColumn    = "INVALID_COLUMN"
	CodeInvalidPriority  = "INVALID_PRIORITY"

	// Priority 3: Old shapes and weak references (warnings)
	CodeLegacyTags       = "LEGACY_TAGS"
	CodeMissingTags      = "MISSING_AVAILABLE_TAGS"
	CodeMissingSubTasks  = "MISSING_SUBTASKS"
	CodeDanglingTagRef   = "DANGLING_TAG_REF"
	CodeEmptyBoardName   = "EMPTY_BOARD_NAME"
	CodeDuplicateSubTask = "DUPLICATE_SUBTASK_ID"
)

//go:embed schema/boards.schema.json
var boardsSchemaJSON string

const boardsSchemaURL = "https://lanes.local/schema/boards.schema.json"

var (
	boardsSchemaOnce sync.Once
	boardsSchema     *jsonschema.Schema
	boardsSchemaErr  error
)

func compiledBoardsSchema() (*jsonschema.Schema, error) {
	boardsSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(boardsSchemaURL, strings.NewReader(boardsSchemaJSON)); err != nil {
			boardsSchemaErr = err
			return
		}
		boardsSchema, boardsSchemaErr = compiler.Compile(boardsSchemaURL)
	})
	return boardsSchema, boardsSchemaErr
}

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity   IssueSeverity     `json:"severity"`
	Code       string            `json:"code"`
	BoardID    string            `json:"board_id,omitempty"`
	CardID     string            `json:"card_id,omitempty"`
	Message    string            `json:"message"`
	Fixable    bool              `json:"fixable"`
	FixAction  string            `json:"fix_action,omitempty"`
	FixError   string            `json:"fix_error,omitempty"`   // Populated if fix was attempted but failed
	FixContext map[string]string `json:"fix_context,omitempty"` // Structured data for fix logic
}

// BoardDiagnostic contains stats for a single board.
type BoardDiagnostic struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards int    `json:"cards"`
	Tags  int    `json:"tags"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Fixed     int `json:"fixed"`
	FixFailed int `json:"fix_failed,omitempty"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	Backend string            `json:"backend"`
	Key     string            `json:"key"`
	Empty   bool              `json:"empty"`
	Boards  []BoardDiagnostic `json:"boards"`
	Issues  []Issue           `json:"issues"`
	Summary ReportSummary     `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

func (r *DiagnosticReport) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

func (r *DiagnosticReport) summarize() {
	r.Summary.Errors, r.Summary.Warnings = 0, 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			r.Summary.Errors++
		} else {
			r.Summary.Warnings++
		}
	}
}

// DoctorService validates the persisted board collection.
type DoctorService struct {
	gateway *store.Gateway
	ids     id.Generator
	key     string
}

// NewDoctorService creates a new diagnostic service.
func NewDoctorService(gateway *store.Gateway, ids id.Generator, key string) *DoctorService {
	if key == "" {
		key = model.DefaultStorageKey
	}
	return &DoctorService{gateway: gateway, ids: ids, key: key}
}

// Diagnose reads the raw stored value, validates its shape against the
// board schema, then checks the model invariants.
func (s *DoctorService) Diagnose(ctx context.Context) (*DiagnosticReport, error) {
	report := &DiagnosticReport{
		Backend: s.gateway.Backend().Name(),
		Key:     s.key,
		Boards:  []BoardDiagnostic{},
		Issues:  []Issue{},
	}

	raw, err := s.gateway.Raw(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) || errors.Is(err, store.ErrUnavailable) {
			report.Empty = true
			return report, nil
		}
		report.add(Issue{
			Severity: SeverityError,
			Code:     CodeUnreadableData,
			Message:  fmt.Sprintf("Cannot read stored boards: %v", err),
		})
		report.summarize()
		return report, nil
	}

	var doc any
	if err := sonic.ConfigStd.Unmarshal(raw, &doc); err != nil {
		report.add(Issue{
			Severity: SeverityError,
			Code:     CodeUnreadableData,
			Message:  fmt.Sprintf("Stored boards are not valid JSON: %v", err),
		})
		report.summarize()
		return report, nil
	}

	schema, err := compiledBoardsSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling board schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		collectSchemaIssues(report, err)
		report.summarize()
		return report, nil
	}

	var boards []model.Board
	if err := sonic.ConfigStd.Unmarshal(raw, &boards); err != nil {
		report.add(Issue{
			Severity: SeverityError,
			Code:     CodeUnreadableData,
			Message:  fmt.Sprintf("Stored boards do not decode: %v", err),
		})
		report.summarize()
		return report, nil
	}

	report.Empty = len(boards) == 0
	seenBoards := make(map[string]bool)
	for bi, b := range boards {
		report.Boards = append(report.Boards, BoardDiagnostic{
			ID:    b.ID,
			Name:  b.Name,
			Cards: len(b.Cards),
			Tags:  len(b.AvailableTags),
		})
		if seenBoards[b.ID] {
			report.add(Issue{
				Severity:   SeverityError,
				Code:       CodeDuplicateBoardID,
				BoardID:    b.ID,
				Message:    fmt.Sprintf("Board id %s is used by more than one board", b.ID),
				Fixable:    true,
				FixAction:  "Assign a fresh id to the later board",
				FixContext: fixAt(bi, -1, -1),
			})
		}
		seenBoards[b.ID] = true
		s.checkBoard(report, bi, &b)
	}

	report.summarize()
	return report, nil
}

func (s *DoctorService) checkBoard(report *DiagnosticReport, bi int, b *model.Board) {
	if strings.TrimSpace(b.Name) == "" {
		report.add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeEmptyBoardName,
			BoardID:   b.ID,
			Message:   "Board has an empty name",
			FixAction: "Run 'lanes board rename'",
		})
	}

	if b.AvailableTags == nil {
		report.add(Issue{
			Severity:   SeverityWarning,
			Code:       CodeMissingTags,
			BoardID:    b.ID,
			Message:    fmt.Sprintf("Board %q has no availableTags field", b.Name),
			Fixable:    true,
			FixAction:  "Seed the starter tag set",
			FixContext: fixAt(bi, -1, -1),
		})
	}

	tagIDs := make(map[string]bool)
	for i, t := range b.AvailableTags {
		if tagIDs[t.ID] {
			report.add(Issue{
				Severity:   SeverityError,
				Code:       CodeDuplicateTagID,
				BoardID:    b.ID,
				Message:    fmt.Sprintf("Tag id %s is used by more than one tag", t.ID),
				Fixable:    true,
				FixAction:  "Assign a fresh id to the later tag",
				FixContext: fixAt(bi, -1, i),
			})
		}
		tagIDs[t.ID] = true
	}

	cardIDs := make(map[string]bool)
	for i, c := range b.Cards {
		if cardIDs[c.ID] {
			report.add(Issue{
				Severity:   SeverityError,
				Code:       CodeDuplicateCardID,
				BoardID:    b.ID,
				CardID:     c.ID,
				Message:    fmt.Sprintf("Card id %s appears more than once", c.ID),
				Fixable:    true,
				FixAction:  "Assign a fresh id to the later card",
				FixContext: fixAt(bi, i, -1),
			})
		}
		cardIDs[c.ID] = true
		s.checkCard(report, b, &c, tagIDs, fixAt(bi, i, -1))
	}
}

func (s *DoctorService) checkCard(report *DiagnosticReport, b *model.Board, c *model.Card, tagIDs map[string]bool, at map[string]string) {
	if !c.Column.Valid() {
		report.add(Issue{
			Severity:   SeverityError,
			Code:       CodeInvalidColumn,
			BoardID:    b.ID,
			CardID:     c.ID,
			Message:    fmt.Sprintf("Card %q has invalid column %q", c.Title, c.Column),
			Fixable:    true,
			FixAction:  "Move the card to todo",
			FixContext: at,
		})
	}
	if !c.Priority.Valid() {
		report.add(Issue{
			Severity:   SeverityError,
			Code:       CodeInvalidPriority,
			BoardID:    b.ID,
			CardID:     c.ID,
			Message:    fmt.Sprintf("Card %q has invalid priority %q", c.Title, c.Priority),
			Fixable:    true,
			FixAction:  "Set priority to medium",
			FixContext: at,
		})
	}
	if c.SubTasks == nil {
		report.add(Issue{
			Severity:   SeverityWarning,
			Code:       CodeMissingSubTasks,
			BoardID:    b.ID,
			CardID:     c.ID,
			Message:    fmt.Sprintf("Card %q has no subTasks field", c.Title),
			Fixable:    true,
			FixAction:  "Set an empty sub-task list",
			FixContext: at,
		})
	}
	seen := make(map[string]bool)
	for _, st := range c.SubTasks {
		if seen[st.ID] {
			report.add(Issue{
				Severity: SeverityWarning,
				Code:     CodeDuplicateSubTask,
				BoardID:  b.ID,
				CardID:   c.ID,
				Message:  fmt.Sprintf("Sub-task id %s appears more than once in card %q", st.ID, c.Title),
			})
		}
		seen[st.ID] = true
	}
	if len(c.LegacyTags) > 0 {
		report.add(Issue{
			Severity:   SeverityWarning,
			Code:       CodeLegacyTags,
			BoardID:    b.ID,
			CardID:     c.ID,
			Message:    fmt.Sprintf("Card %q uses the old multi-tag field", c.Title),
			Fixable:    true,
			FixAction:  "Keep the first tag as tagId",
			FixContext: at,
		})
	}
	if c.TagID != "" && !tagIDs[c.TagID] && b.AvailableTags != nil {
		report.add(Issue{
			Severity:   SeverityWarning,
			Code:       CodeDanglingTagRef,
			BoardID:    b.ID,
			CardID:     c.ID,
			Message:    fmt.Sprintf("Card %q references missing tag %s", c.Title, c.TagID),
			Fixable:    true,
			FixAction:  "Clear the card's tag",
			FixContext: at,
		})
	}
}

// Fix applies automatic fixes for issues that have deterministic solutions
// and writes the repaired collection back. Returns a new report showing
// remaining issues and what was fixed.
func (s *DoctorService) Fix(ctx context.Context, report *DiagnosticReport) (*DiagnosticReport, error) {
	boards := store.Load(ctx, s.gateway, s.key, []model.Board(nil))

	fixed := 0
	fixFailed := 0
	remaining := []Issue{}

	// No fix adds or removes entries, so positions in FixContext stay valid.
	for _, issue := range report.Issues {
		if !issue.Fixable {
			remaining = append(remaining, issue)
			continue
		}

		if err := s.applyFix(boards, issue); err != nil {
			issue.FixError = err.Error()
			remaining = append(remaining, issue)
			fixFailed++
			continue
		}
		fixed++
	}

	if fixed > 0 {
		s.gateway.Save(ctx, s.key, boards)
	}

	newReport := &DiagnosticReport{
		Backend: report.Backend,
		Key:     report.Key,
		Empty:   report.Empty,
		Boards:  report.Boards,
		Issues:  remaining,
		Summary: ReportSummary{
			Fixed:     fixed,
			FixFailed: fixFailed,
		},
	}
	newReport.summarize()
	return newReport, nil
}

// applyFix locates its target by position. Ids cannot be trusted while
// duplicates exist, and an earlier fix in the same pass may have renamed one.
func (s *DoctorService) applyFix(boards []model.Board, issue Issue) error {
	bi, err := fixIndex(issue, "board", len(boards))
	if err != nil {
		return err
	}
	b := &boards[bi]

	switch issue.Code {
	case CodeDuplicateBoardID:
		b.ID = s.ids.Generate()
		return nil
	case CodeMissingTags:
		if b.AvailableTags == nil {
			b.AvailableTags = model.DefaultTags(s.ids.Generate)
		}
		return nil
	case CodeDuplicateTagID:
		i, err := fixIndex(issue, "tag", len(b.AvailableTags))
		if err != nil {
			return err
		}
		b.AvailableTags[i].ID = s.ids.Generate()
		return nil
	}

	ci, err := fixIndex(issue, "card", len(b.Cards))
	if err != nil {
		return err
	}
	c := &b.Cards[ci]
	switch issue.Code {
	case CodeDuplicateCardID:
		c.ID = s.ids.Generate()
	case CodeInvalidColumn:
		c.Column = model.ColumnTodo
	case CodeInvalidPriority:
		c.Priority = model.PriorityMedium
	case CodeMissingSubTasks:
		c.SubTasks = []model.SubTask{}
	case CodeLegacyTags:
		if c.TagID == "" && len(c.LegacyTags) > 0 {
			c.TagID = c.LegacyTags[0].ID
		}
		c.LegacyTags = nil
	case CodeDanglingTagRef:
		c.TagID = ""
	default:
		return fmt.Errorf("no automatic fix for %s", issue.Code)
	}
	return nil
}

// fixAt records where an issue was found. Negative positions are omitted.
func fixAt(board, card, tag int) map[string]string {
	at := map[string]string{"board": strconv.Itoa(board)}
	if card >= 0 {
		at["card"] = strconv.Itoa(card)
	}
	if tag >= 0 {
		at["tag"] = strconv.Itoa(tag)
	}
	return at
}

func fixIndex(issue Issue, key string, n int) (int, error) {
	i, err := strconv.Atoi(issue.FixContext[key])
	if err != nil || i < 0 || i >= n {
		return 0, fmt.Errorf("stale fix context for %s", issue.Code)
	}
	return i, nil
}

func collectSchemaIssues(report *DiagnosticReport, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		report.add(Issue{Severity: SeverityError, Code: CodeSchemaViolation, Message: err.Error()})
		return
	}
	collectSchemaCauses(report, ve)
}

func collectSchemaCauses(report *DiagnosticReport, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		location := ve.InstanceLocation
		if location == "" {
			location = "/"
		}
		report.add(Issue{
			Severity: SeverityError,
			Code:     CodeSchemaViolation,
			Message:  fmt.Sprintf("%s: %s", location, ve.Message),
		})
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaCauses(report, cause)
	}
}
