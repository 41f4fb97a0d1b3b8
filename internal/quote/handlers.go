package quote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quotedesk/backend-rfq/internal/common"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// Enqueuer schedules a background reprice run for a quote.
type Enqueuer interface {
	EnqueueReprice(ctx context.Context, quoteID uuid.UUID) (string, error)
}

// Handler exposes REST endpoints for saved quotes.
type Handler struct {
	Service *Service
	Reprice Enqueuer
}

type createRequest struct {
	Status   string       `json:"status"`
	Remark   string       `json:"remark"`
	Document rfq.Document `json:"document"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/v1/quotes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, 20, 100)
	quotes, total, err := h.Service.List(r.Context(), page, limit)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list quotes", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       quotes,
		"pagination": common.Pagination{Page: page, PerPage: limit, TotalItems: int(total)},
	})
}

// Create handles POST /api/v1/quotes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	if req.Status != "" && !ValidStatus(req.Status) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown quote status", map[string]any{"status": req.Status})
		return
	}
	quote, err := h.Service.Create(r.Context(), req.Status, req.Remark, req.Document)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to save quote", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": quote})
}

// Get handles GET /api/v1/quotes/{quoteID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	quote, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

// UpdateStatus handles PATCH /api/v1/quotes/{quoteID}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	if !ValidStatus(req.Status) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown quote status", map[string]any{"status": req.Status})
		return
	}
	quote, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

// Delete handles DELETE /api/v1/quotes/{quoteID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestReprice handles POST /api/v1/quotes/{quoteID}/reprice. It verifies the
// quote exists, then enqueues a background job that re-runs the remote cost
// pipeline and merges the fresh results into the stored document.
func (h *Handler) RequestReprice(w http.ResponseWriter, r *http.Request) {
	if h.Reprice == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "reprice queue not configured", nil)
		return
	}
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	if _, err := h.Service.Get(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	taskID, err := h.Reprice.EnqueueReprice(r.Context(), id)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to enqueue reprice job", nil)
		return
	}
	common.JSON(w, http.StatusAccepted, map[string]any{
		"data": map[string]any{"quote_id": id, "task_id": taskID, "state": "queued"},
	})
}

func (h *Handler) quoteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "quoteID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid quote id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrQuoteNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quote not found", nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote operation failed", nil)
}
