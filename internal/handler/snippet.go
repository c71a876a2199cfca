package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/code-editor/internal/auth"
	"github.com/sakif/code-editor/internal/service"
)

// SnippetHandler manages CRUD and history endpoints for code snippets.
// Every route requires authentication; the owner scope comes from the JWT,
// never from the request body.
type SnippetHandler struct {
	svc    *service.SnippetService
	logger *slog.Logger
}

// NewSnippetHandler creates a new SnippetHandler.
func NewSnippetHandler(svc *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{svc: svc, logger: logger}
}

type snippetRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Code        *string   `json:"code"`
	Language    *string   `json:"language"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=10,dive,max=30"`
	Category    *string   `json:"category"`
	IsPublic    *bool     `json:"isPublic"`
	Changes     string    `json:"changes" validate:"omitempty,max=200"`
}

func (r snippetRequest) input() service.SnippetInput {
	return service.SnippetInput{
		Title:       r.Title,
		Description: r.Description,
		Code:        r.Code,
		Language:    r.Language,
		Tags:        r.Tags,
		Category:    r.Category,
		IsPublic:    r.IsPublic,
	}
}

// HandleCreate saves a new snippet.
//
// HTTP: POST /api/codes
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req snippetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snippet, err := h.svc.Create(r.Context(), userID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, snippet)
}

// HandleList returns a filtered page of the user's snippets.
//
// HTTP: GET /api/codes?page=1&limit=20&language=python&category=utility&search=sort
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	q := r.URL.Query()
	query := service.ListQuery{
		Language: q.Get("language"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.Limit, _ = strconv.Atoi(q.Get("limit"))

	result, err := h.svc.List(r.Context(), userID, query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// HandleGet returns one snippet with its version history.
//
// HTTP: GET /api/codes/{id}
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	snippet, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, snippet)
}

// HandleUpdate applies partial changes to a snippet. A code change snapshots
// the previous body into the version history.
//
// HTTP: PUT /api/codes/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req snippetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snippet, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req.input(), req.Changes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, snippet)
}

// HandleDelete removes a snippet and its history.
//
// HTTP: DELETE /api/codes/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

// HandleHistory returns the snippet's superseded versions, newest first.
//
// HTTP: GET /api/codes/{id}/history
func (h *SnippetHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	result, err := h.svc.History(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}
