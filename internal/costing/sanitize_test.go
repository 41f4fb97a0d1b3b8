package costing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend-rfq/internal/costing"
	"github.com/quotedesk/backend-rfq/internal/rfq"
)

func TestSanitizeConfigDefaults(t *testing.T) {
	item := rfq.LineItem{
		ID:         "1",
		Material:   "SS 304",
		Dimensions: rfq.Dimensions{Length: 50, Width: 20, Height: 5},
	}

	cfg := costing.SanitizeConfig(item)

	require.Equal(t, "A", cfg.Form)
	require.Equal(t, "SS 304", cfg.Material, "item material fills a missing config material")
	require.Equal(t, costing.WireDims{Width: 20, Height: 5, Length: 50}, cfg.Dimensions)
	require.NotNil(t, cfg.Features)
	require.Empty(t, cfg.Features)
}

func TestSanitizeConfigFallbackMaterial(t *testing.T) {
	cfg := costing.SanitizeConfig(rfq.LineItem{ID: "1"})
	require.Equal(t, costing.FallbackMaterial, cfg.Material)
}

func TestSanitizeConfigPrefersConfigValues(t *testing.T) {
	item := rfq.LineItem{
		ID:         "1",
		Material:   "C45",
		Dimensions: rfq.Dimensions{Length: 1, Width: 1, Height: 1},
		Config: &rfq.ItemConfig{
			Material:   "Brass",
			Form:       "B",
			Dimensions: &rfq.Dimensions{Length: 30, Width: 10, Height: 2},
		},
	}

	cfg := costing.SanitizeConfig(item)

	require.Equal(t, "Brass", cfg.Material)
	require.Equal(t, "B", cfg.Form)
	require.Equal(t, costing.WireDims{Width: 10, Height: 2, Length: 30}, cfg.Dimensions)
}

func TestSanitizeConfigRemapsUnknownFeatures(t *testing.T) {
	item := rfq.LineItem{
		ID: "1",
		Config: &rfq.ItemConfig{
			Features: []rfq.Feature{
				{Type: "thread", Spec: "M6"},
				{Type: "laser_engraving", Spec: "logo"},
				{Type: "heat_treatment", Spec: "HRC 45"},
				{Type: "", Spec: "unspecified"},
			},
		},
	}

	cfg := costing.SanitizeConfig(item)

	require.Equal(t, []costing.Feature{
		{FeatureType: "thread", Spec: "M6"},
		{FeatureType: "other", Spec: "logo"},
		{FeatureType: "heat_treatment", Spec: "HRC 45"},
		{FeatureType: "other", Spec: "unspecified"},
	}, cfg.Features)
}

func TestPriceableRejectsZeroDimensions(t *testing.T) {
	ok, reason := costing.Priceable(rfq.LineItem{ID: "1", Description: "Plate"})
	require.False(t, ok)
	require.Equal(t, "zero dimensions", reason)
}

func TestPriceableConfigDimensionsRescueItem(t *testing.T) {
	item := rfq.LineItem{
		ID:          "1",
		Description: "Plate",
		Config: &rfq.ItemConfig{
			Dimensions: &rfq.Dimensions{Length: 10, Width: 10, Height: 1},
		},
	}
	ok, _ := costing.Priceable(item)
	require.True(t, ok)
}

func TestPriceableRejectsPlaceholders(t *testing.T) {
	item := rfq.LineItem{
		ID:          "1",
		Description: "{{article_name}}",
		Dimensions:  rfq.Dimensions{Length: 10, Width: 10, Height: 1},
	}
	ok, reason := costing.Priceable(item)
	require.False(t, ok)
	require.Equal(t, "unresolved placeholder in description", reason)
}

func TestBuildRequestItem(t *testing.T) {
	item := rfq.LineItem{
		ID:          "7",
		Description: "Bracket",
		Quantity:    12,
		Material:    "Alu 6061",
		Dimensions:  rfq.Dimensions{Length: 80, Width: 40, Height: 6},
	}

	req := costing.BuildRequestItem(item)

	require.Equal(t, "7", req.Pos)
	require.Equal(t, "Bracket", req.ArticleName)
	require.Equal(t, 12, req.Quantity)
	require.Equal(t, "Alu 6061", req.Config.Material)
}
