package rfq

// Dimensions holds the bounding geometry of a line item in millimetres.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether all three axes are zero. Items with zero geometry
// are kept in the document but excluded from remote pricing.
func (d Dimensions) IsZero() bool {
	return d.Length == 0 && d.Width == 0 && d.Height == 0
}

// Feature describes a manufacturing feature attached to a line item
// (holes, threads, coatings and so on).
type Feature struct {
	Type string `json:"feature_type"`
	Spec string `json:"spec"`
}

// ItemConfig carries the rich specification extracted for a line item.
// All fields are optional; absent values are filled by the cost request
// sanitizer before any remote call.
type ItemConfig struct {
	MaterialID    string      `json:"material_id,omitempty"`
	Standard      string      `json:"standard,omitempty"`
	Form          string      `json:"form,omitempty"`
	Material      string      `json:"material,omitempty"`
	Dimensions    *Dimensions `json:"dimensions,omitempty"`
	Features      []Feature   `json:"features,omitempty"`
	WeightPerUnit float64     `json:"weight_per_unit,omitempty"`
}

// RemoteBreakdown is the pricing backend's itemised cost decomposition.
// It is only ever populated from a remote response, never locally.
type RemoteBreakdown struct {
	BaseMaterialID  string   `json:"base_material_id,omitempty"`
	BaseDescription string   `json:"base_description,omitempty"`
	BaseUnitCost    float64  `json:"base_unit_cost"`
	ModulesCost     float64  `json:"modules_cost"`
	SetupCost       float64  `json:"setup_cost"`
	TotalCost       float64  `json:"total_cost"`
	AppliedModules  []string `json:"applied_modules,omitempty"`
	Explanation     string   `json:"explanation,omitempty"`
	Currency        string   `json:"currency,omitempty"`
}

// CalculationResult combines locally computed physical quantities with
// remotely supplied pricing. Volume, density and weight are locally
// authoritative: a merge never zeroes them, the remote backend only
// supersedes the pricing group.
type CalculationResult struct {
	VolumeMm3     float64          `json:"volume_mm3"`
	Density       float64          `json:"density"`
	WeightGrams   float64          `json:"weight_grams"`
	MaterialCost  float64          `json:"material_cost"`
	UnitPrice     float64          `json:"unit_price"`
	TotalLineCost float64          `json:"total_line_cost"`
	Remote        *RemoteBreakdown `json:"remote,omitempty"`
}

// LineItem is one priceable entry within an RFQ. ID is assigned at
// normalization time and immutable afterwards: it is the only key used to
// correlate asynchronous remote pricing results.
type LineItem struct {
	ID           string            `json:"id"`
	Description  string            `json:"description"`
	Material     string            `json:"material"`
	Quantity     int               `json:"quantity"`
	Unit         string            `json:"unit"`
	Tolerance    string            `json:"tolerance,omitempty"`
	DeliveryDate string            `json:"delivery_date,omitempty"`
	Dimensions   Dimensions        `json:"dimensions"`
	Config       *ItemConfig       `json:"config,omitempty"`
	Calculation  CalculationResult `json:"calculation"`
}

// Header holds document-level metadata of an RFQ.
type Header struct {
	CustomerName      string `json:"customer_name"`
	RFQNumber         string `json:"rfq_number"`
	RFQName           string `json:"rfq_name,omitempty"`
	RFQDescription    string `json:"rfq_description,omitempty"`
	PartNumber        string `json:"part_number,omitempty"`
	DocumentDate      string `json:"document_date,omitempty"`
	VendorName        string `json:"vendor_name,omitempty"`
	ResponsiblePerson string `json:"responsible_person,omitempty"`
	BidCloseDate      string `json:"bid_close_date,omitempty"`
	Location          string `json:"location,omitempty"`
	IsAuction         bool   `json:"is_auction"`
	CustomerNumber    string `json:"customer_number,omitempty"`
	DocumentType      string `json:"document_type,omitempty"`
}

// Document is a full RFQ: header plus line items.
type Document struct {
	Header Header     `json:"header"`
	Items  []LineItem `json:"items"`
}

// CloneItems returns a deep copy of the item slice. Merges operate on
// copies so a failed calculation leaves the prior state intact.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = cloneItem(item)
	}
	return out
}

func cloneItem(item LineItem) LineItem {
	if item.Config != nil {
		cfg := *item.Config
		if cfg.Dimensions != nil {
			dims := *cfg.Dimensions
			cfg.Dimensions = &dims
		}
		if cfg.Features != nil {
			cfg.Features = append([]Feature(nil), cfg.Features...)
		}
		item.Config = &cfg
	}
	if item.Calculation.Remote != nil {
		remote := *item.Calculation.Remote
		if remote.AppliedModules != nil {
			remote.AppliedModules = append([]string(nil), remote.AppliedModules...)
		}
		item.Calculation.Remote = &remote
	}
	return item
}
