package rfq

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quotedesk/backend-rfq/internal/extraction"
)

// Defaults applied when the extraction backend omits a field.
const (
	DefaultDescription = "Unnamed Item"
	DefaultUnit        = "pcs"
	DefaultMaterial    = "C45"
)

var germanDate = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)

// NormalizeDate converts DD.MM.YYYY dates to YYYY-MM-DD. Any other value
// is passed through unchanged.
func NormalizeDate(date string) string {
	m := germanDate.FindStringSubmatch(strings.TrimSpace(date))
	if m == nil {
		return strings.TrimSpace(date)
	}
	return m[3] + "-" + m[2] + "-" + m[1]
}

// Normalize maps a raw extraction result into a canonical Document. The
// draft header supplies per-field fallbacks for anything the payload omits.
// Item identifiers are assigned here and are permanent: every later remote
// pricing call correlates results by this value.
func Normalize(result extraction.Result, draft Header) Document {
	items := make([]LineItem, 0, len(result.Data.RequestedItems))
	seen := make(map[string]struct{}, len(result.Data.RequestedItems))
	for idx, payload := range result.Data.RequestedItems {
		item := normalizeItem(payload, idx)
		item.ID = uniqueID(item.ID, seen)
		items = append(items, item)
	}
	return Document{
		Header: normalizeHeader(result.Header, draft),
		Items:  items,
	}
}

// uniqueID keeps item identifiers unique within one document. Remote pricing
// results are correlated by id, so a collision (an explicit pos matching an
// index-derived fallback) would make two items share one cost entry.
func uniqueID(id string, seen map[string]struct{}) string {
	candidate := id
	for n := 2; ; n++ {
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = struct{}{}
			return candidate
		}
		candidate = id + "-" + strconv.Itoa(n)
	}
}

func normalizeItem(payload extraction.ItemPayload, index int) LineItem {
	id := payload.Pos.String()
	if id == "" {
		id = strconv.Itoa(index)
	}

	quantity := int(payload.Quantity)
	if quantity <= 0 {
		quantity = 1
	}

	var dims Dimensions
	var cfg *ItemConfig
	if payload.Config != nil {
		if payload.Config.Dimensions != nil {
			dims = Dimensions{
				Length: float64(payload.Config.Dimensions.Length),
				Width:  float64(payload.Config.Dimensions.Width),
				Height: float64(payload.Config.Dimensions.Height),
			}
		}
		cfg = normalizeConfig(payload.Config)
	}

	material := firstNonEmpty(configMaterial(payload.Config), DefaultMaterial)

	return LineItem{
		ID:           id,
		Description:  firstNonEmpty(payload.ArticleName, DefaultDescription),
		Material:     material,
		Quantity:     quantity,
		Unit:         firstNonEmpty(payload.Unit, DefaultUnit),
		Tolerance:    strings.TrimSpace(payload.Tolerance),
		DeliveryDate: NormalizeDate(payload.DeliveryDate),
		Dimensions:   dims,
		Config:       cfg,
		// The normalizer never invents cost data.
		Calculation: CalculationResult{},
	}
}

func normalizeConfig(payload *extraction.ConfigPayload) *ItemConfig {
	cfg := &ItemConfig{
		MaterialID:    strings.TrimSpace(payload.MaterialID),
		Standard:      strings.TrimSpace(payload.Standard),
		Form:          strings.TrimSpace(payload.Form),
		Material:      strings.TrimSpace(payload.Material),
		WeightPerUnit: float64(payload.WeightPerUnit),
	}
	if payload.Dimensions != nil {
		cfg.Dimensions = &Dimensions{
			Length: float64(payload.Dimensions.Length),
			Width:  float64(payload.Dimensions.Width),
			Height: float64(payload.Dimensions.Height),
		}
	}
	for _, f := range payload.Features {
		cfg.Features = append(cfg.Features, Feature{Type: f.FeatureType, Spec: f.Spec})
	}
	return cfg
}

func configMaterial(payload *extraction.ConfigPayload) string {
	if payload == nil {
		return ""
	}
	return strings.TrimSpace(payload.Material)
}

// normalizeHeader resolves each canonical header field through an explicit
// ordered fallback chain: payload value first (newest naming convention
// first where several exist), then the draft value.
func normalizeHeader(payload extraction.HeaderPayload, draft Header) Header {
	return Header{
		CustomerName:      firstNonEmpty(payload.CustomerName, draft.CustomerName),
		RFQNumber:         firstNonEmpty(payload.RFQNumber, draft.RFQNumber),
		RFQName:           draft.RFQName,
		RFQDescription:    firstNonEmpty(payload.DocumentType, draft.RFQDescription),
		PartNumber:        firstNonEmpty(payload.CustomerNumber, draft.PartNumber),
		DocumentDate:      firstNonEmpty(NormalizeDate(payload.DocumentDate), draft.DocumentDate),
		VendorName:        firstNonEmpty(payload.SupplierName, payload.VendorName, draft.VendorName),
		ResponsiblePerson: draft.ResponsiblePerson,
		BidCloseDate:      draft.BidCloseDate,
		Location:          draft.Location,
		IsAuction:         draft.IsAuction,
		CustomerNumber:    firstNonEmpty(payload.CustomerNumber, draft.CustomerNumber),
		DocumentType:      firstNonEmpty(payload.DocumentType, draft.DocumentType),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
