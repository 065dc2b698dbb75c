package charts

import (
	"bytes"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestAssetTrendRendersPNG(t *testing.T) {
	g := NewGenerator("USD")
	png, err := g.AssetTrend(map[int64]float64{
		1704067200: 1000,
		1704412800: 800,
		1704844800: 1300,
	})
	if err != nil {
		t.Fatalf("AssetTrend: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestAssetTrendSinglePoint(t *testing.T) {
	g := NewGenerator("USD")
	png, err := g.AssetTrend(map[int64]float64{1704067200: 1000})
	if err != nil {
		t.Fatalf("AssetTrend: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestAssetTrendEmpty(t *testing.T) {
	png, err := NewGenerator("USD").AssetTrend(nil)
	if err != nil {
		t.Fatalf("AssetTrend: %v", err)
	}
	if png != nil {
		t.Error("expected no output for empty trend")
	}
}

func TestAssetTrendFlatBalance(t *testing.T) {
	g := NewGenerator("USD")
	png, err := g.AssetTrend(map[int64]float64{
		1704067200: 1000,
		1704412800: 1000,
	})
	if err != nil {
		t.Fatalf("AssetTrend: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryBreakdownSingleCategory(t *testing.T) {
	g := NewGenerator("USD")
	png, err := g.CategoryBreakdown(map[string]float64{"food": 500})
	if err != nil {
		t.Fatalf("CategoryBreakdown: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryBreakdownRendersPNG(t *testing.T) {
	g := NewGenerator("EUR")
	png, err := g.CategoryBreakdown(map[string]float64{
		"food":      500,
		"transport": 300,
	})
	if err != nil {
		t.Fatalf("CategoryBreakdown: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestMonthlyTotalsRendersPNG(t *testing.T) {
	g := NewGenerator("USD")
	png, err := g.MonthlyTotals(map[string]float64{
		"2024-01": 4200,
		"2024-02": -250,
	})
	if err != nil {
		t.Fatalf("MonthlyTotals: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}
