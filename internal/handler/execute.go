package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/service"
)

// ExecuteHandler handles code execution requests and the language listing.
type ExecuteHandler struct {
	svc    *service.ExecutionService
	logger *slog.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(svc *service.ExecutionService, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{svc: svc, logger: logger}
}

type executeRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language" validate:"required"`
	Input    string `json:"input"`
}

// HandleExecute runs code in the sandbox backend.
//
// HTTP: POST /api/compile/execute
//
// An execution that ran but failed (non-zero exit, compile error, timeout)
// still comes back 200 — success:false with the result attached. Only
// infrastructure failures produce 5xx.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.svc.Execute(r.Context(), executor.Request{
		Code:     req.Code,
		Language: req.Language,
		Stdin:    req.Input,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: !result.HasError,
		Data:    result,
		Message: result.Message,
	})
}

// HandleLanguages lists every supported language. Public — no auth needed.
//
// HTTP: GET /api/compile/languages
func (h *ExecuteHandler) HandleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, h.svc.Languages())
}
