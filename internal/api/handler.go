package api

import (
	"fmt"
	"net/http"
	"strings"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/service"
	log "github.com/sirupsen/logrus"
)

// Handler contains all HTTP handlers for the API.
//
// Every write goes through the BoardService, which is the single owner of
// board state. The store swallows bad ids and a missing active board, so
// handlers check both up front to report them as 404 and 409.
type Handler struct {
	boards      *service.BoardService
	faviconPath string
	logger      log.FieldLogger
}

// NewHandler creates a new handler. faviconPath may point at a custom SVG
// served instead of the generated one.
func NewHandler(boards *service.BoardService, faviconPath string, logger log.FieldLogger) *Handler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Handler{
		boards:      boards,
		faviconPath: faviconPath,
		logger:      logger,
	}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /favicon.svg", h.GetFavicon)

	// State
	mux.HandleFunc("GET /api/v1/state", h.GetState)
	mux.HandleFunc("GET /api/v1/active", h.GetActiveBoard)

	// Board routes
	mux.HandleFunc("POST /api/v1/boards", h.CreateBoard)
	mux.HandleFunc("PATCH /api/v1/boards/{id}", h.UpdateBoard)
	mux.HandleFunc("DELETE /api/v1/boards/{id}", h.DeleteBoard)
	mux.HandleFunc("POST /api/v1/boards/{id}/select", h.SelectBoard)

	// Card routes
	mux.HandleFunc("POST /api/v1/cards", h.CreateCard)
	mux.HandleFunc("PATCH /api/v1/cards/{id}", h.UpdateCard)
	mux.HandleFunc("DELETE /api/v1/cards/{id}", h.DeleteCard)
	mux.HandleFunc("POST /api/v1/cards/{id}/move", h.MoveCard)
	mux.HandleFunc("POST /api/v1/cards/{id}/reorder", h.ReorderCard)

	// Sub-task routes
	mux.HandleFunc("POST /api/v1/cards/{id}/subtasks", h.CreateSubTask)
	mux.HandleFunc("PATCH /api/v1/cards/{id}/subtasks/{sid}", h.UpdateSubTask)
	mux.HandleFunc("POST /api/v1/cards/{id}/subtasks/{sid}/toggle", h.ToggleSubTask)
	mux.HandleFunc("DELETE /api/v1/cards/{id}/subtasks/{sid}", h.DeleteSubTask)

	// Tag routes
	mux.HandleFunc("GET /api/v1/tags", h.ListTags)
	mux.HandleFunc("POST /api/v1/tags", h.CreateTag)
	mux.HandleFunc("DELETE /api/v1/tags/{id}", h.DeleteTag)

	// Drag and drop
	mux.HandleFunc("POST /api/v1/drag/start", h.DragStart)
	mux.HandleFunc("POST /api/v1/drag/end", h.DragEnd)

	// Static files (frontend)
	mux.Handle("/", h.StaticHandler())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- State Handlers ---

// ActiveBoardResponse is the active board plus its per-lane projections.
type ActiveBoardResponse struct {
	Board   model.Board                   `json:"board"`
	Columns map[model.Column][]model.Card `json:"columns"`
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.boards.State())
}

func (h *Handler) GetActiveBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.requireActive()
	if err != nil {
		Error(w, err)
		return
	}

	resp := ActiveBoardResponse{
		Board:   board,
		Columns: make(map[model.Column][]model.Card, len(model.Columns)),
	}
	for _, col := range model.Columns {
		resp.Columns[col] = board.CardsInColumn(col)
	}
	JSON(w, http.StatusOK, resp)
}

// --- Board Handlers ---

type boardRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		Error(w, lnerr.InvalidField("name", "board name is required"))
		return
	}

	JSON(w, http.StatusCreated, h.boards.AddBoard(name))
}

func (h *Handler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.boards.Board(id); !ok {
		Error(w, lnerr.BoardNotFound(id))
		return
	}

	var req boardRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		Error(w, lnerr.InvalidField("name", "board name is required"))
		return
	}

	h.boards.EditBoard(id, name)
	board, _ := h.boards.Board(id)
	JSON(w, http.StatusOK, board)
}

func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.boards.Board(id); !ok {
		Error(w, lnerr.BoardNotFound(id))
		return
	}

	h.boards.DeleteBoard(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SelectBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	board, ok := h.boards.Board(id)
	if !ok {
		Error(w, lnerr.BoardNotFound(id))
		return
	}

	h.boards.SelectBoard(id)
	JSON(w, http.StatusOK, board)
}

// --- Card Handlers ---

type subTaskRequest struct {
	Title string `json:"title"`
}

type createCardRequest struct {
	Title       string           `json:"title"`
	Priority    string           `json:"priority"`
	Description string           `json:"description"`
	SubTasks    []subTaskRequest `json:"subTasks"`
	TagID       string           `json:"tagId"`
}

type updateCardRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Priority    *string          `json:"priority"`
	Column      *string          `json:"column"`
	SubTasks    *[]model.SubTask `json:"subTasks"`
	TagID       *string          `json:"tagId"`
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireActive(); err != nil {
		Error(w, err)
		return
	}

	var req createCardRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		Error(w, lnerr.InvalidField("title", "card title is required"))
		return
	}

	input := service.AddCardInput{
		Title:       title,
		Description: req.Description,
		TagID:       req.TagID,
	}
	if req.Priority != "" {
		p, ok := model.ParsePriority(req.Priority)
		if !ok {
			Error(w, lnerr.InvalidField("priority", fmt.Sprintf("unknown priority %q", req.Priority)))
			return
		}
		input.Priority = p
	}
	for _, st := range req.SubTasks {
		if t := strings.TrimSpace(st.Title); t != "" {
			input.SubTasks = append(input.SubTasks, model.SubTask{Title: t})
		}
	}

	card, ok := h.boards.AddCard(input)
	if !ok {
		Error(w, &lnerr.NoActiveBoardError{ActiveID: h.boards.ActiveBoardID()})
		return
	}
	JSON(w, http.StatusCreated, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.requireCard(id); err != nil {
		Error(w, err)
		return
	}

	var req updateCardRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}

	update := service.CardUpdate{
		Title:       req.Title,
		Description: req.Description,
		SubTasks:    req.SubTasks,
		TagID:       req.TagID,
	}
	if req.Priority != nil {
		p, ok := model.ParsePriority(*req.Priority)
		if !ok {
			Error(w, lnerr.InvalidField("priority", fmt.Sprintf("unknown priority %q", *req.Priority)))
			return
		}
		update.Priority = &p
	}
	if req.Column != nil {
		col, ok := model.ParseColumn(*req.Column)
		if !ok {
			Error(w, lnerr.InvalidField("column", fmt.Sprintf("unknown column %q", *req.Column)))
			return
		}
		update.Column = &col
	}

	h.boards.EditCard(id, update)
	card, _ := h.boards.Card(id)
	JSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.requireCard(id); err != nil {
		Error(w, err)
		return
	}

	h.boards.RemoveCard(id)
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	Column string `json:"column"`
}

func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.requireCard(id); err != nil {
		Error(w, err)
		return
	}

	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}
	col, ok := model.ParseColumn(req.Column)
	if !ok {
		Error(w, lnerr.InvalidField("column", fmt.Sprintf("unknown column %q", req.Column)))
		return
	}

	h.boards.MoveCard(id, col)
	card, _ := h.boards.Card(id)
	JSON(w, http.StatusOK, card)
}

type reorderRequest struct {
	Over string `json:"over"`
}

// ReorderCard places a card at another card's position in the same lane.
// Cards in different lanes are rejected rather than silently ignored.
func (h *Handler) ReorderCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	card, err := h.requireCard(id)
	if err != nil {
		Error(w, err)
		return
	}

	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}
	over, err := h.requireCard(req.Over)
	if err != nil {
		Error(w, err)
		return
	}
	if over.Column != card.Column {
		Error(w, lnerr.InvalidField("over", fmt.Sprintf("card %s is in %s, not %s", over.ID, over.Column, card.Column)))
		return
	}

	h.boards.MoveCardToOrder(id, over.ID)
	board, _ := h.boards.ActiveBoard()
	JSON(w, http.StatusOK, board.CardsInColumn(card.Column))
}

// --- Sub-task Handlers ---

func (h *Handler) CreateSubTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.requireCard(id); err != nil {
		Error(w, err)
		return
	}

	var req subTaskRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		Error(w, lnerr.InvalidField("title", "sub-task title is required"))
		return
	}

	st, ok := h.boards.AddSubTask(id, title)
	if !ok {
		Error(w, lnerr.CardNotFound(id))
		return
	}
	JSON(w, http.StatusCreated, st)
}

func (h *Handler) UpdateSubTask(w http.ResponseWriter, r *http.Request) {
	id, sid := r.PathValue("id"), r.PathValue("sid")
	if _, err := h.requireSubTask(id, sid); err != nil {
		Error(w, err)
		return
	}

	var req subTaskRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		Error(w, lnerr.InvalidField("title", "sub-task title is required"))
		return
	}

	h.boards.EditSubTask(id, sid, title)
	card, _ := h.boards.Card(id)
	JSON(w, http.StatusOK, card)
}

func (h *Handler) ToggleSubTask(w http.ResponseWriter, r *http.Request) {
	id, sid := r.PathValue("id"), r.PathValue("sid")
	if _, err := h.requireSubTask(id, sid); err != nil {
		Error(w, err)
		return
	}

	h.boards.ToggleSubTask(id, sid)
	card, _ := h.boards.Card(id)
	JSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteSubTask(w http.ResponseWriter, r *http.Request) {
	id, sid := r.PathValue("id"), r.PathValue("sid")
	if _, err := h.requireSubTask(id, sid); err != nil {
		Error(w, err)
		return
	}

	h.boards.RemoveSubTask(id, sid)
	w.WriteHeader(http.StatusNoContent)
}

// --- Tag Handlers ---

type tagRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireActive(); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, h.boards.AvailableTags())
}

// CreateTag adds a tag to the active board. With ?dedupe=true an existing
// tag whose name folds to the same value is returned instead.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		Error(w, lnerr.InvalidField("name", "tag name is required"))
		return
	}

	if r.URL.Query().Get("dedupe") == "true" {
		if tag, ok := h.boards.FindTagByName(name); ok {
			JSON(w, http.StatusOK, tag)
			return
		}
	}

	tag, err := h.boards.AddTag(name)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, tag)
}

func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	board, err := h.requireActive()
	if err != nil {
		Error(w, err)
		return
	}
	if _, ok := board.FindTag(id); !ok {
		Error(w, lnerr.TagNotFound(id))
		return
	}

	h.boards.RemoveTag(id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Drag Handlers ---

type dragRequest struct {
	Active string `json:"active"`
	Over   string `json:"over"`
}

// DragEndResponse reports what the drop did.
type DragEndResponse struct {
	Outcome service.DragOutcome `json:"outcome"`
	Card    *model.Card         `json:"card,omitempty"`
}

func (h *Handler) DragStart(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}

	card, ok := h.boards.BeginDrag(req.Active)
	if !ok {
		Error(w, lnerr.CardNotFound(req.Active))
		return
	}
	JSON(w, http.StatusOK, card)
}

// DragEnd reconciles a drop. An aborted drop is not an error: the client
// just snaps the card back.
func (h *Handler) DragEnd(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decodeBody(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp := DragEndResponse{Outcome: h.boards.EndDrag(req.Active, req.Over)}
	if resp.Outcome != service.DragAborted {
		if card, ok := h.boards.Card(req.Active); ok {
			resp.Card = &card
		}
	}
	JSON(w, http.StatusOK, resp)
}

// --- helpers ---

func (h *Handler) requireActive() (model.Board, error) {
	board, ok := h.boards.ActiveBoard()
	if !ok {
		return model.Board{}, &lnerr.NoActiveBoardError{ActiveID: h.boards.ActiveBoardID()}
	}
	return board, nil
}

func (h *Handler) requireCard(id string) (model.Card, error) {
	if _, err := h.requireActive(); err != nil {
		return model.Card{}, err
	}
	card, ok := h.boards.Card(id)
	if !ok {
		return model.Card{}, lnerr.CardNotFound(id)
	}
	return card, nil
}

func (h *Handler) requireSubTask(cardID, subTaskID string) (model.SubTask, error) {
	card, err := h.requireCard(cardID)
	if err != nil {
		return model.SubTask{}, err
	}
	i := card.FindSubTask(subTaskID)
	if i < 0 {
		return model.SubTask{}, lnerr.SubTaskNotFound(subTaskID, cardID)
	}
	return card.SubTasks[i], nil
}
