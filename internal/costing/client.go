package costing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quotedesk/backend-rfq/internal/resilience"
)

// ServerError carries a non-2xx backend reply. The body is preserved
// verbatim so it can surface as the item's explanation.
type ServerError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("costing: backend returned %d: %s", e.StatusCode, e.Body)
}

// Client prices a single line item against the remote backend.
type Client interface {
	Calculate(ctx context.Context, item RequestItem) (ResponseItem, error)
}

// HTTPClient implements Client over HTTP. The wire protocol is a batch
// endpoint; this client always sends a one-element batch.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	HTTP    *resilience.HTTPClient
}

// Calculate issues POST /calculate-batch for one item and returns the
// first (only) element of the response list. Non-2xx replies are returned
// as *ServerError with the raw body attached.
func (c HTTPClient) Calculate(ctx context.Context, item RequestItem) (ResponseItem, error) {
	payload, err := json.Marshal(Request{RequestedItems: []RequestItem{item}})
	if err != nil {
		return ResponseItem{}, fmt.Errorf("costing: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/calculate-batch", bytes.NewReader(payload))
	if err != nil {
		return ResponseItem{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return ResponseItem{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return ResponseItem{}, &ServerError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	var list []ResponseItem
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return ResponseItem{}, fmt.Errorf("costing: decode response: %w", err)
	}
	if len(list) == 0 {
		return ResponseItem{}, fmt.Errorf("costing: backend returned empty batch for item %s", item.Pos)
	}
	return list[0], nil
}

// MockClient returns deterministic breakdowns without any network call.
type MockClient struct {
	Currency string
}

// Calculate prices every item at a flat rate derived from its quantity.
func (m MockClient) Calculate(_ context.Context, item RequestItem) (ResponseItem, error) {
	currency := m.Currency
	if currency == "" {
		currency = "EUR"
	}
	unit := 10.0
	return ResponseItem{
		Status:   "ok",
		CustomID: item.Pos,
		Breakdown: &Breakdown{
			BaseUnitCost:   unit,
			TotalUnitCost:  unit,
			TotalCost:      unit * float64(item.Quantity),
			TotalOrderCost: unit * float64(item.Quantity),
			Currency:       currency,
		},
		Explanation: "mock pricing",
	}, nil
}
