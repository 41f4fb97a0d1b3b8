package pricing

import (
	"github.com/quotedesk/backend-rfq/internal/pricebook"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

// Fallbacks used when a material is missing from the catalog. Computation
// proceeds with these instead of failing.
const (
	FallbackDensity   = 7.85 // g/cm3, structural steel
	FallbackCostPerKg = 1.50
)

// Estimate computes the physics-based cost estimate for one line item.
// It is pure: identical inputs always produce identical results, there is
// no I/O and no clock or randomness involved. Zero dimensions yield a zero
// cost, not an error; filtering unpriceable items happens downstream.
func Estimate(material string, dims rfq.Dimensions, quantity int, book pricebook.Pricebook) rfq.CalculationResult {
	density := FallbackDensity
	costPerKg := FallbackCostPerKg
	if def, ok := book.Lookup(material); ok {
		density = def.Density
		costPerKg = def.CostPerKg
	}

	volumeMm3 := dims.Length * dims.Width * dims.Height
	volumeCm3 := volumeMm3 / 1000
	weightGrams := volumeCm3 * density

	costPerGram := costPerKg / 1000
	unitCost := weightGrams * costPerGram
	unitCost *= 1 + book.GlobalMarkup/100

	return rfq.CalculationResult{
		VolumeMm3:     volumeMm3,
		Density:       density,
		WeightGrams:   weightGrams,
		MaterialCost:  unitCost,
		UnitPrice:     unitCost,
		TotalLineCost: unitCost * float64(quantity),
	}
}

// EstimateAll returns a copy of the items with fresh local estimates. It is
// meant for freshly normalized documents, before any remote pricing ran.
func EstimateAll(items []rfq.LineItem, book pricebook.Pricebook) []rfq.LineItem {
	out := rfq.CloneItems(items)
	for i := range out {
		out[i].Calculation = Estimate(out[i].Material, out[i].Dimensions, out[i].Quantity, book)
	}
	return out
}
