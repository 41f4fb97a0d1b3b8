package pricebook

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/quotedesk/backend-rfq/internal/common"
)

// UpdateRequest is the inbound shape for catalog updates.
type UpdateRequest struct {
	Materials    map[string]MaterialUpdate `json:"materials" validate:"required,min=1,dive"`
	GlobalMarkup float64                   `json:"global_markup" validate:"gte=0,lte=500"`
	Currency     string                    `json:"currency" validate:"required,len=3"`
}

// MaterialUpdate is one material definition in an update request.
type MaterialUpdate struct {
	Name      string  `json:"name" validate:"required"`
	Density   float64 `json:"density" validate:"gt=0"`
	CostPerKg float64 `json:"cost_per_kg" validate:"gte=0"`
}

// Handler exposes read/update endpoints for the pricing catalog.
type Handler struct {
	Store    *Store
	Validate *validator.Validate
}

// Get handles GET /api/v1/pricebook.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.Store.Load(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "PRICEBOOK_LOAD", "failed to load pricebook", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": book})
}

// Put handles PUT /api/v1/pricebook. The request replaces the catalog as a
// whole; each material gets a fresh last-updated stamp.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_JSON", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
			return
		}
	}

	now := time.Now().UTC()
	book := Pricebook{
		Materials:    make(map[string]Material, len(req.Materials)),
		GlobalMarkup: req.GlobalMarkup,
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
	}
	for id, m := range req.Materials {
		id = strings.TrimSpace(id)
		if id == "" {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "material id must not be empty", nil)
			return
		}
		book.Materials[id] = Material{
			ID:          id,
			Name:        m.Name,
			Density:     m.Density,
			CostPerKg:   m.CostPerKg,
			LastUpdated: now,
		}
	}

	if err := h.Store.Save(r.Context(), book); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "PRICEBOOK_SAVE", "failed to save pricebook", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": book})
}
