package extraction

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString tolerates backends that emit the same field as either a JSON
// string or a number.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the underlying value with surrounding whitespace removed.
func (f FlexString) String() string { return strings.TrimSpace(string(f)) }

// FlexFloat tolerates numeric fields delivered as strings. Non-numeric
// values decode as zero rather than failing the whole payload.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = 0
		return nil
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// DimensionsPayload mirrors the backend's dimensions object.
type DimensionsPayload struct {
	Width  FlexFloat `json:"width"`
	Height FlexFloat `json:"height"`
	Length FlexFloat `json:"length"`
}

// FeaturePayload mirrors the backend's feature entries.
type FeaturePayload struct {
	FeatureType string `json:"feature_type"`
	Spec        string `json:"spec"`
}

// ConfigPayload mirrors the backend's optional rich item specification.
type ConfigPayload struct {
	MaterialID    string             `json:"material_id"`
	Standard      string             `json:"standard"`
	Form          string             `json:"form"`
	Material      string             `json:"material"`
	Dimensions    *DimensionsPayload `json:"dimensions"`
	Features      []FeaturePayload   `json:"features"`
	WeightPerUnit FlexFloat          `json:"weight_per_unit"`
}

// ItemPayload is one extracted line item as delivered by the backend.
type ItemPayload struct {
	Pos                    FlexString     `json:"pos"`
	ArticleName            string         `json:"article_name"`
	SupplierMaterialNumber string         `json:"supplier_material_number"`
	CustomerMaterialNumber string         `json:"customer_material_number"`
	Quantity               FlexFloat      `json:"quantity"`
	Unit                   string         `json:"unit"`
	Tolerance              string         `json:"tolerance"`
	DeliveryDate           string         `json:"delivery_date"`
	Config                 *ConfigPayload `json:"config"`
}

// HeaderPayload is the document-level header block. Several historical
// field names for the same concept are captured side by side; the
// normalizer resolves them in a fixed order.
type HeaderPayload struct {
	SupplierName   string `json:"supplier_name"`
	VendorName     string `json:"vendor_name"`
	CustomerName   string `json:"customer_name"`
	DocumentType   string `json:"document_type"`
	DocumentDate   string `json:"document_date"`
	CustomerNumber string `json:"customer_number"`
	RFQNumber      string `json:"rfq_number"`
}

// Metadata describes how the backend ingested the document.
type Metadata struct {
	Source       string `json:"source"`
	DocumentType string `json:"document_type"`
}

// Result is the full extraction backend response.
type Result struct {
	Status   string        `json:"status"`
	Metadata Metadata      `json:"metadata"`
	Header   HeaderPayload `json:"header"`
	Data     struct {
		RequestedItems []ItemPayload `json:"requested_items"`
	} `json:"data"`
}
