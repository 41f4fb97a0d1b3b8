package costing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quotedesk/backend-rfq/internal/common"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// Handler exposes the synchronous remote pricing endpoint.
type Handler struct {
	Orchestrator *Orchestrator
}

type priceRequest struct {
	Items []rfq.LineItem `json:"items"`
}

// Price handles POST /api/v1/rfqs/price. It runs every priceable line item
// through the cost backend concurrently and returns the merged items together
// with the per-item outcomes, so callers can show partial failures instead of
// losing the whole batch.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	if len(req.Items) == 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "items must not be empty", nil)
		return
	}

	responses, err := h.Orchestrator.PriceAll(r.Context(), req.Items)
	if err != nil {
		if errors.Is(err, ErrNoPriceableItems) {
			common.JSONError(w, http.StatusUnprocessableEntity, "NO_PRICEABLE_ITEMS",
				"no item passed validation for cost calculation", nil)
			return
		}
		common.JSONError(w, http.StatusBadGateway, "COST_BACKEND", "cost calculation failed", nil)
		return
	}

	merged := Merge(req.Items, responses)
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"items":    merged,
			"outcomes": responses,
		},
	})
}
