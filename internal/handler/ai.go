package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/code-editor/internal/auth"
	"github.com/sakif/code-editor/internal/service"
)

// AIHandler exposes the six AI assistance endpoints. All of them require
// authentication and share the /api/ai rate limit.
type AIHandler struct {
	svc    *service.AIService
	logger *slog.Logger
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(svc *service.AIService, logger *slog.Logger) *AIHandler {
	return &AIHandler{svc: svc, logger: logger}
}

type aiRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language" validate:"required"`
}

// HandleAnalyze runs the comprehensive code review.
//
// HTTP: POST /api/ai/analyze
func (h *AIHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req aiRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Analyze(r.Context(), userID, req.Code, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

// HandleExplain runs the plain-language walkthrough.
//
// HTTP: POST /api/ai/explain
func (h *AIHandler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req aiRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Explain(r.Context(), userID, req.Code, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

// HandleOptimize runs the syntax-fix-then-optimize operation.
//
// HTTP: POST /api/ai/optimize
func (h *AIHandler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req aiRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Optimize(r.Context(), userID, req.Code, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

// HandleDocument generates documentation for the code.
//
// HTTP: POST /api/ai/document
func (h *AIHandler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req aiRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Document(r.Context(), userID, req.Code, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

type convertRequest struct {
	Code         string `json:"code" validate:"required"`
	FromLanguage string `json:"fromLanguage" validate:"required"`
	ToLanguage   string `json:"toLanguage" validate:"required"`
}

// HandleConvert translates code between languages.
//
// HTTP: POST /api/ai/convert
func (h *AIHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req convertRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.Convert(r.Context(), userID, req.Code, req.FromLanguage, req.ToLanguage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

type fixBugsRequest struct {
	Code         string `json:"code" validate:"required"`
	Language     string `json:"language" validate:"required"`
	ErrorMessage string `json:"errorMessage"`
}

// HandleFixBugs debugs the code, optionally guided by an error message.
//
// HTTP: POST /api/ai/fix
func (h *AIHandler) HandleFixBugs(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req fixBugsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.svc.FixBugs(r.Context(), userID, req.Code, req.Language, req.ErrorMessage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
