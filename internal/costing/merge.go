package costing

import "github.com/quotedesk/backend-rfq/internal/rfq"

// Merge reconciles remote pricing results onto the line items and returns
// a new slice; the inputs are never mutated. Items without a matching
// response, or whose response carries no breakdown, pass through
// unchanged. Volume, density and weight always survive the merge: the
// backend is authoritative for pricing, never for geometry. Merging the
// same response set twice yields the same result as merging it once.
func Merge(items []rfq.LineItem, responses ResponseSet) []rfq.LineItem {
	out := rfq.CloneItems(items)
	for i := range out {
		res, ok := responses[out[i].ID]
		if !ok || res.Breakdown == nil {
			continue
		}
		out[i].Calculation = mergeCalculation(out[i].Calculation, res)
	}
	return out
}

func mergeCalculation(prev rfq.CalculationResult, res ResponseItem) rfq.CalculationResult {
	bd := res.Breakdown

	total := bd.TotalOrderCost
	if total == 0 {
		total = bd.TotalCost
	}

	remote := &rfq.RemoteBreakdown{
		BaseUnitCost: bd.BaseUnitCost,
		ModulesCost:  bd.ModulesCost,
		SetupCost:    bd.SetupCost,
		TotalCost:    bd.TotalCost,
		Explanation:  res.Explanation,
		Currency:     bd.Currency,
	}
	if res.BaseKey != nil {
		remote.BaseMaterialID = res.BaseKey.ID
		remote.BaseDescription = res.BaseKey.Description
	}
	if len(res.AppliedModules) > 0 {
		remote.AppliedModules = append([]string(nil), res.AppliedModules...)
	}

	return rfq.CalculationResult{
		// Geometry is locally authoritative and carried forward as-is.
		VolumeMm3:   prev.VolumeMm3,
		Density:     prev.Density,
		WeightGrams: prev.WeightGrams,

		MaterialCost:  bd.BaseUnitCost,
		UnitPrice:     bd.TotalUnitCost,
		TotalLineCost: total,
		Remote:        remote,
	}
}
