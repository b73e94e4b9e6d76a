package provider

import (
	"context"
	"testing"
)

func TestFixtureMarketMatchesSegmentContent(t *testing.T) {
	t.Parallel()

	s := New(WithSeed(1), WithClock(fixedClock))
	p, err := s.Market(context.Background(), "metformin")
	if err != nil {
		t.Fatalf("market: %v", err)
	}
	if p.DataQuality["source"] != "market_overview.json" {
		t.Fatalf("expected fixture payload, got %+v", p.DataQuality)
	}
	if p.BrandName != "Glycomet" {
		t.Fatalf("expected leading brand, got %q", p.BrandName)
	}
	if p.MarketOverview.MarketMaturity != "Growth" {
		t.Fatalf("expected Growth maturity for cagr above 5, got %q", p.MarketOverview.MarketMaturity)
	}
	if len(p.HistoricalData) != 5 || p.HistoricalData[0].Year != 2020 {
		t.Fatalf("unexpected history: %+v", p.HistoricalData)
	}
	if p.HistoricalData[1].GrowthPercent <= 0 {
		t.Fatalf("expected computed growth, got %v", p.HistoricalData[1].GrowthPercent)
	}
}

func TestFixtureTradeCategories(t *testing.T) {
	t.Parallel()

	s := New()
	cases := map[string]string{
		"Metformin":    "API Export",
		"Atorvastatin": "API Import",
		"Losartan":     "Formulation Export",
	}
	for molecule, want := range cases {
		p, err := s.Trade(context.Background(), molecule)
		if err != nil {
			t.Fatalf("%s: %v", molecule, err)
		}
		if p.Category != want {
			t.Fatalf("%s: category %q want %q", molecule, p.Category, want)
		}
	}

	p, _ := s.Trade(context.Background(), "Metformin")
	if len(p.QuarterlyTrends) != 4 {
		t.Fatalf("expected fixture quarterly trends, got %d", len(p.QuarterlyTrends))
	}
	if p.TradeSummary.TotalExportsKg != 24980000 {
		t.Fatalf("expected tonnes converted to kg, got %v", p.TradeSummary.TotalExportsKg)
	}
}

func TestFixturePatentsRisk(t *testing.T) {
	t.Parallel()

	s := New()
	p, err := s.Patents(context.Background(), "Atorvastatin")
	if err != nil {
		t.Fatalf("patents: %v", err)
	}
	if len(p.Patents) != 1 || p.Patents[0].RiskFlag != "HIGH RISK" {
		t.Fatalf("unexpected patents: %+v", p.Patents)
	}
	if p.Patents[0].ExpiryDate != "2031-01-01" {
		t.Fatalf("unexpected expiry %q", p.Patents[0].ExpiryDate)
	}
	if len(p.LitigationStatus.Cases) != 2 {
		t.Fatalf("expected litigation cases, got %+v", p.LitigationStatus)
	}
}

func TestFixtureTrialsPhaseCounts(t *testing.T) {
	t.Parallel()

	s := New()
	p, err := s.Trials(context.Background(), "Metformin")
	if err != nil {
		t.Fatalf("trials: %v", err)
	}
	if p.TotalActiveTrials != 3 {
		t.Fatalf("expected 3 matching trials, got %d", p.TotalActiveTrials)
	}
	got := p.PipelineSummary.Counts()
	want := []int{0, 1, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("phase counts %v want %v", got, want)
		}
	}
}

func TestFixturesSkippedForEmptyOrUnknownMolecule(t *testing.T) {
	t.Parallel()

	s := New(WithSeed(2), WithClock(fixedClock))
	p, err := s.Patents(context.Background(), "Ibuprofen")
	if err != nil {
		t.Fatalf("patents: %v", err)
	}
	if p.DataQuality != nil && p.DataQuality["source"] == "uspto_patents_detailed.json" {
		t.Fatalf("expected generated payload for uncovered molecule")
	}

	var nilSet *fixtureSet
	if _, ok := nilSet.market("Metformin"); ok {
		t.Fatalf("nil fixture set must not match")
	}
	if _, ok := loadFixtures().trials(""); ok {
		t.Fatalf("empty molecule must not match")
	}
}

func TestLoadFixturesParsesEveryDataset(t *testing.T) {
	t.Parallel()

	f := loadFixtures()
	docs := map[string]bool{
		"market":  f.marketDoc.IsObject(),
		"trade":   f.tradeDoc.IsObject(),
		"patents": f.patentsDoc.IsObject(),
		"trials":  f.trialsDoc.IsObject(),
	}
	for name, ok := range docs {
		if !ok {
			t.Fatalf("expected %s fixture to parse as an object", name)
		}
	}
	if _, ok := f.market("Metformin"); !ok {
		t.Fatal("expected market fixture match for Metformin")
	}
}
