package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/quotedesk/backend-rfq/internal/resilience"
)

// Client defines the behaviour required to extract structured RFQ data
// from an uploaded document.
type Client interface {
	Process(ctx context.Context, filename string, file io.Reader) (Result, error)
}

// HTTPClient calls the extraction backend over HTTP.
type HTTPClient struct {
	BaseURL string
	HTTP    *resilience.HTTPClient
}

// Process uploads the document as multipart form data and decodes the
// structured response.
func (c HTTPClient) Process(ctx context.Context, filename string, file io.Reader) (Result, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Result{}, fmt.Errorf("extraction: build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return Result{}, fmt.Errorf("extraction: copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("extraction: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/process", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("extraction: call backend: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("extraction: backend returned %d: %s", resp.StatusCode, string(body))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("extraction: decode response: %w", err)
	}
	return result, nil
}

// MockClient returns deterministic extraction results regardless of input.
// Useful for development and tests when no backend is available.
type MockClient struct{}

// Process ignores the document and returns two canned line items.
func (MockClient) Process(_ context.Context, _ string, _ io.Reader) (Result, error) {
	var result Result
	result.Status = "ok"
	result.Metadata = Metadata{Source: "native", DocumentType: "rfq"}
	result.Header = HeaderPayload{
		SupplierName: "Acme Manufacturing",
		CustomerName: "Quotedesk Demo",
		DocumentType: "Purchase Order",
		RFQNumber:    "RFQ-MOCK-2024",
	}
	result.Data.RequestedItems = []ItemPayload{
		{
			Pos:         "1",
			ArticleName: "Machined Casing",
			Quantity:    50,
			Unit:        "Stk",
			Tolerance:   "ISO 2768-m",
			Config: &ConfigPayload{
				Material:   "C45",
				Dimensions: &DimensionsPayload{Length: 120, Width: 80, Height: 25},
			},
		},
		{
			Pos:         "2",
			ArticleName: "Mounting Plate",
			Quantity:    100,
			Unit:        "Stk",
			Tolerance:   "H7",
			Config: &ConfigPayload{
				Material:   "Alu 6061",
				Dimensions: &DimensionsPayload{Length: 200, Width: 200, Height: 10},
			},
		},
	}
	return result, nil
}
