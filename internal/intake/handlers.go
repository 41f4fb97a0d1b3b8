// Package intake turns uploaded RFQ documents into normalized, locally priced
// line items. It is the entry point of the pipeline: extraction backend first,
// then normalization, then the offline estimator over the current pricebook.
package intake

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/quotedesk/backend-rfq/internal/common"
	"github.com/quotedesk/backend-rfq/internal/extraction"
	"github.com/quotedesk/backend-rfq/internal/obs"
	"github.com/quotedesk/backend-rfq/internal/pricebook"
	"github.com/quotedesk/backend-rfq/internal/pricing"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// maxUploadBytes caps the multipart body. RFQ PDFs are small; anything larger
// is almost certainly a mistake.
const maxUploadBytes = 32 << 20

// Handler exposes the document upload endpoint.
type Handler struct {
	Extractor extraction.Client
	Books     *pricebook.Store
	Logger    zerolog.Logger
}

// Upload handles POST /api/v1/documents. The response carries the full
// normalized document with local estimates already applied, ready for the
// client to review or send into the remote cost pipeline.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid multipart payload", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "missing file field", nil)
		return
	}
	defer file.Close()

	result, err := h.Extractor.Process(r.Context(), header.Filename, file)
	if err != nil {
		obs.CountOutcome(obs.ExtractionTotal, "error")
		h.Logger.Error().Err(err).Str("filename", header.Filename).Msg("document extraction failed")
		common.JSONError(w, http.StatusBadGateway, "EXTRACTION_FAILED", "document extraction failed", nil)
		return
	}
	obs.CountOutcome(obs.ExtractionTotal, "ok")

	doc := rfq.Normalize(result, draftHeader(r))

	book, err := h.Books.Load(r.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("pricebook load failed, using defaults")
		book = pricebook.Default()
	}
	doc.Items = pricing.EstimateAll(doc.Items, book)

	h.Logger.Info().
		Str("filename", header.Filename).
		Int("items", len(doc.Items)).
		Msg("document processed")
	common.JSON(w, http.StatusOK, map[string]any{"data": doc})
}

// draftHeader picks up optional form fields the uploader already knows, so
// extraction gaps can be filled from them.
func draftHeader(r *http.Request) rfq.Header {
	return rfq.Header{
		VendorName:     r.FormValue("vendor_name"),
		CustomerNumber: r.FormValue("customer_number"),
		RFQNumber:      r.FormValue("rfq_number"),
	}
}
