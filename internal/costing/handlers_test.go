package costing_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend-rfq/internal/costing"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

func TestPriceEndpointMergesResults(t *testing.T) {
	client := &stubClient{reply: okResponse}
	h := &costing.Handler{Orchestrator: &costing.Orchestrator{Client: client, Logger: zerolog.Nop()}}

	payload, err := json.Marshal(map[string]any{"items": []rfq.LineItem{validItem("1"), validItem("2")}})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.Price(rr, httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/price", strings.NewReader(string(payload))))

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data struct {
			Items    []rfq.LineItem                  `json:"items"`
			Outcomes map[string]costing.ResponseItem `json:"outcomes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 2)
	require.Len(t, body.Data.Outcomes, 2)
	require.NotNil(t, body.Data.Items[0].Calculation.Remote)
	require.InDelta(t, 4.2, body.Data.Items[0].Calculation.UnitPrice, 1e-9)
}

func TestPriceEndpointRejectsEmptyBody(t *testing.T) {
	h := &costing.Handler{Orchestrator: &costing.Orchestrator{Client: &stubClient{reply: okResponse}, Logger: zerolog.Nop()}}

	rr := httptest.NewRecorder()
	h.Price(rr, httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/price", strings.NewReader(`{"items":[]}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.Price(rr, httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/price", strings.NewReader("garbage")))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPriceEndpointAllItemsRejected(t *testing.T) {
	h := &costing.Handler{Orchestrator: &costing.Orchestrator{Client: &stubClient{reply: okResponse}, Logger: zerolog.Nop()}}

	payload := `{"items":[{"id":"1","description":"No dims","quantity":1}]}`
	rr := httptest.NewRecorder()
	h.Price(rr, httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/price", strings.NewReader(payload)))

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
