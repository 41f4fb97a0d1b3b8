package quote_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend-rfq/internal/quote"
)

func routed(h *quote.Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/quotes", h.Create)
	r.Route("/quotes/{quoteID}", func(child chi.Router) {
		child.Get("/", h.Get)
		child.Patch("/", h.UpdateStatus)
		child.Post("/reprice", h.RequestReprice)
	})
	return r
}

func TestCreateRejectsInvalidPayloads(t *testing.T) {
	h := &quote.Handler{Service: &quote.Service{}}
	router := routed(h)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader("not json")))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(`{"status":"Archived"}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestQuoteIDMustBeUUID(t *testing.T) {
	h := &quote.Handler{Service: &quote.Service{}}
	router := routed(h)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/quotes/not-a-uuid/", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/quotes/123/", strings.NewReader(`{"status":"Sent"}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRepriceWithoutQueueIsUnavailable(t *testing.T) {
	h := &quote.Handler{Service: &quote.Service{}}
	router := routed(h)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/quotes/6f1f58a1-9f1b-4a46-93b5-3f0ab9c6c001/reprice", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
