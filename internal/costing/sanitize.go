package costing

import (
	"strings"

	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// FallbackMaterial is substituted when neither the item config nor the
// item itself names a material.
const FallbackMaterial = "C45"

// validFeatureTypes is the backend's closed feature set. Unknown types are
// remapped to "other" rather than rejected.
var validFeatureTypes = map[string]struct{}{
	"hole":           {},
	"thread":         {},
	"bore":           {},
	"coating":        {},
	"marking":        {},
	"heat_treatment": {},
	"other":          {},
}

// SanitizeConfig coerces a line item's configuration into the exact shape
// the pricing backend requires. Absent fields become explicit defaults so
// the wire payload is always fully populated.
func SanitizeConfig(item rfq.LineItem) Config {
	cfg := item.Config
	if cfg == nil {
		cfg = &rfq.ItemConfig{}
	}

	dims := item.Dimensions
	if cfg.Dimensions != nil {
		dims = *cfg.Dimensions
	}

	features := make([]Feature, 0, len(cfg.Features))
	for _, f := range cfg.Features {
		featureType := strings.TrimSpace(f.Type)
		if _, ok := validFeatureTypes[featureType]; !ok {
			featureType = "other"
		}
		features = append(features, Feature{FeatureType: featureType, Spec: f.Spec})
	}

	form := strings.TrimSpace(cfg.Form)
	if form == "" {
		form = "A"
	}

	material := strings.TrimSpace(cfg.Material)
	if material == "" {
		material = strings.TrimSpace(item.Material)
	}
	if material == "" {
		material = FallbackMaterial
	}

	return Config{
		MaterialID:    strings.TrimSpace(cfg.MaterialID),
		Standard:      strings.TrimSpace(cfg.Standard),
		Form:          form,
		Material:      material,
		Dimensions:    WireDims{Width: dims.Width, Height: dims.Height, Length: dims.Length},
		Features:      features,
		WeightPerUnit: cfg.WeightPerUnit,
	}
}

// Priceable reports whether the item qualifies for remote pricing. The
// second return names the rejection reason for logging. Rejected items are
// excluded from the batch entirely and keep their prior calculation.
func Priceable(item rfq.LineItem) (bool, string) {
	dims := item.Dimensions
	if item.Config != nil && item.Config.Dimensions != nil {
		dims = *item.Config.Dimensions
	}
	if dims.IsZero() {
		return false, "zero dimensions"
	}
	if strings.Contains(item.Description, "{{") || strings.Contains(item.Description, "}}") {
		return false, "unresolved placeholder in description"
	}
	return true, ""
}

// BuildRequestItem assembles the per-item wire payload.
func BuildRequestItem(item rfq.LineItem) RequestItem {
	return RequestItem{
		Pos:         item.ID,
		ArticleName: item.Description,
		Quantity:    item.Quantity,
		Config:      SanitizeConfig(item),
	}
}
