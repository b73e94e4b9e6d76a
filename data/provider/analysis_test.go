package provider

import (
	"reflect"
	"testing"
)

func TestStandardizeUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    float64
		from, to string
		want     float64
		ok       bool
	}{
		{1500, "g", "kg", 1.5, true},
		{2, "mt", "kg", 2000, true},
		{3000, "kg", "metric_ton", 3, true},
		{5, "lb", "kg", 5, false},
	}
	for _, tt := range tests {
		got, ok := StandardizeUnits(tt.value, tt.from, tt.to)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("StandardizeUnits(%v, %q, %q) = %v, %v; want %v, %v", tt.value, tt.from, tt.to, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectOutliers(t *testing.T) {
	t.Parallel()

	values := []float64{10, 11, 9, 10, 12, 10, 11, 95}
	got := DetectOutliers(values, DefaultOutlierThreshold)
	if !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("expected index 7 flagged, got %v", got)
	}
	if got := DetectOutliers([]float64{5}, 2); got != nil {
		t.Fatalf("expected nil for single value, got %v", got)
	}
	if got := DetectOutliers([]float64{4, 4, 4}, 2); len(got) != 0 {
		t.Fatalf("expected no outliers for constant series, got %v", got)
	}
}

func TestDetectDataGaps(t *testing.T) {
	t.Parallel()

	flags := DetectDataGaps(map[string]any{"ytd_data": true, "note": "Estimated Q4"})
	if !flags.IsYTD || !flags.IsPartial || len(flags.Flags) != 2 {
		t.Fatalf("unexpected flags: %+v", flags)
	}
	clean := DetectDataGaps(map[string]any{"year": 2024})
	if clean.IsYTD || clean.IsPartial || len(clean.Flags) != 0 {
		t.Fatalf("expected no flags, got %+v", clean)
	}
}

func TestFuzzyMatchAndLookup(t *testing.T) {
	t.Parallel()

	if !FuzzyMatch("Metformin", "metformine", DefaultFuzzyThreshold) {
		t.Fatalf("expected close spelling to match")
	}
	if FuzzyMatch("Metformin", "Ibuprofen", DefaultFuzzyThreshold) {
		t.Fatalf("expected unrelated names not to match")
	}

	m, ok := LookupMolecule("atorvastatn")
	if !ok || m.Name != "Atorvastatin" {
		t.Fatalf("expected fuzzy lookup to find Atorvastatin, got %+v %v", m, ok)
	}
	if _, ok := LookupMolecule(""); ok {
		t.Fatalf("empty name must not resolve")
	}
}

func TestDetectMoleculePrefersEarliestMention(t *testing.T) {
	t.Parallel()

	m, ok := DetectMolecule("Compare losartan against metformin pricing")
	if !ok || m.Name != "Losartan" {
		t.Fatalf("expected Losartan, got %+v %v", m, ok)
	}
	if _, ok := DetectMolecule("no molecule here"); ok {
		t.Fatalf("expected no detection")
	}
}

func TestCAGRAndProjection(t *testing.T) {
	t.Parallel()

	got, ok := CAGR(1000, 1210, 2)
	if !ok || round(got, 4) != 10 {
		t.Fatalf("CAGR(1000, 1210, 2) = %v, %v; want 10, true", got, ok)
	}
	if _, ok := CAGR(0, 10, 2); ok {
		t.Fatal("expected zero start to be rejected")
	}
	if _, ok := CAGR(10, 20, 0); ok {
		t.Fatal("expected zero years to be rejected")
	}

	if got := round(Compound(100, 10, 2), 2); got != 121 {
		t.Fatalf("Compound(100, 10, 2) = %v, want 121", got)
	}
	if got := Project(100, 10, 3); !reflect.DeepEqual(got, []float64{110, 121, 133.1}) {
		t.Fatalf("Project(100, 10, 3) = %v", got)
	}
	if got := Project(100, 10, 0); got != nil {
		t.Fatalf("expected nil projection for zero years, got %v", got)
	}
}

func TestHistoryCAGR(t *testing.T) {
	t.Parallel()

	points := []HistoricalPoint{
		{Year: 2020, RevenueUSDMillion: 100},
		{Year: 2021, RevenueUSDMillion: 105},
		{Year: 2022, RevenueUSDMillion: 121},
	}
	got, ok := HistoryCAGR(points)
	if !ok || round(got, 4) != 10 {
		t.Fatalf("HistoryCAGR = %v, %v; want 10, true", got, ok)
	}
	if _, ok := HistoryCAGR(points[:1]); ok {
		t.Fatal("expected a single point to be rejected")
	}
}
