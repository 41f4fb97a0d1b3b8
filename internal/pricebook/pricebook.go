package pricebook

import (
	"strings"
	"time"
)

// Material defines the physical and commercial properties of one catalog entry.
type Material struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Density     float64   `json:"density"`     // g/cm3
	CostPerKg   float64   `json:"cost_per_kg"` // in catalog currency
	LastUpdated time.Time `json:"last_updated"`
}

// Pricebook is the pricing catalog: material definitions plus a global
// markup percentage and a currency code. It is injected into the estimator
// as plain data so estimation stays pure.
type Pricebook struct {
	Materials    map[string]Material `json:"materials"`
	GlobalMarkup float64             `json:"global_markup"` // percent
	Currency     string              `json:"currency"`
}

// Lookup resolves a material by id, tolerating case and whitespace noise
// from extracted documents. The second return reports whether the catalog
// has a definition; callers fall back to defaults when it does not.
func (p Pricebook) Lookup(material string) (Material, bool) {
	key := strings.TrimSpace(material)
	if m, ok := p.Materials[key]; ok {
		return m, true
	}
	for id, m := range p.Materials {
		if strings.EqualFold(id, key) {
			return m, true
		}
	}
	return Material{}, false
}

// Default returns the seeded catalog used until an operator saves their own.
func Default() Pricebook {
	now := time.Now().UTC()
	materials := []Material{
		{ID: "C45", Name: "Steel C45 (1.0503)", Density: 7.85, CostPerKg: 1.50},
		{ID: "Alu 6061", Name: "Aluminium 6061", Density: 2.70, CostPerKg: 2.80},
		{ID: "SS 304", Name: "Stainless Steel 304", Density: 8.00, CostPerKg: 4.50},
		{ID: "Brass", Name: "Brass (CuZn39Pb3)", Density: 8.73, CostPerKg: 6.00},
		{ID: "ABS", Name: "Plastic ABS", Density: 1.04, CostPerKg: 0.80},
	}
	book := Pricebook{
		Materials: make(map[string]Material, len(materials)),
		Currency:  "EUR",
	}
	for _, m := range materials {
		m.LastUpdated = now
		book.Materials[m.ID] = m
	}
	return book
}
