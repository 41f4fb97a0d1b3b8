package costing

// Wire-level types for the remote pricing backend. The batch body always
// carries exactly one item: requests are issued per item so one failure
// cannot corrupt another item's result.

// Request is the body of POST /calculate-batch.
type Request struct {
	RequestedItems []RequestItem `json:"requested_items"`
}

// RequestItem is one item to price. Pos carries the line item identifier
// and is echoed back by the backend as custom_id.
type RequestItem struct {
	Pos         string `json:"pos"`
	ArticleName string `json:"article_name"`
	Quantity    int    `json:"quantity"`
	Config      Config `json:"config"`
}

// Config is the exact item specification shape the backend requires.
// Every field is always present; the sanitizer fills defaults.
type Config struct {
	MaterialID    string    `json:"material_id"`
	Standard      string    `json:"standard"`
	Form          string    `json:"form"`
	Material      string    `json:"material"`
	Dimensions    WireDims  `json:"dimensions"`
	Features      []Feature `json:"features"`
	WeightPerUnit float64   `json:"weight_per_unit"`
}

// WireDims is the backend's dimension triple.
type WireDims struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Length float64 `json:"length"`
}

// Feature is one manufacturing feature in backend form. Type is always a
// member of the backend's closed feature set.
type Feature struct {
	FeatureType string `json:"feature_type"`
	Spec        string `json:"spec"`
}

// BaseKey describes the base material the backend matched the item to.
type BaseKey struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Specs       []string `json:"specs"`
}

// Breakdown is the backend's itemised cost decomposition. TotalOrderCost
// is optional; zero means the backend did not supply an order-level total.
type Breakdown struct {
	BaseUnitCost   float64 `json:"base_unit_cost"`
	ModulesCost    float64 `json:"modules_cost"`
	SetupCost      float64 `json:"setup_cost"`
	TotalUnitCost  float64 `json:"total_unit_cost"`
	TotalCost      float64 `json:"total_cost"`
	TotalOrderCost float64 `json:"total_order_cost"`
	Currency       string  `json:"currency"`
}

// StatusError marks a synthesized per-item failure entry. Successful
// entries carry whatever status string the backend emitted.
const StatusError = "error"

// ResponseItem is one element of the backend's response list, or a
// synthesized error entry when the call for that item failed.
type ResponseItem struct {
	Status         string     `json:"status"`
	CustomID       string     `json:"custom_id"`
	MatchType      string     `json:"match_type,omitempty"`
	BaseKey        *BaseKey   `json:"base_key,omitempty"`
	Breakdown      *Breakdown `json:"breakdown,omitempty"`
	AppliedModules []string   `json:"applied_modules,omitempty"`
	Explanation    string     `json:"explanation,omitempty"`
}

// Failed reports whether this entry represents a per-item failure.
func (r ResponseItem) Failed() bool {
	return r.Status == StatusError || r.Breakdown == nil
}

// ResponseSet holds exactly one response entry per item that passed
// sanitization, keyed by the echoed item identifier.
type ResponseSet map[string]ResponseItem
