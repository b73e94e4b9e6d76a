package provider

import "fmt"

var (
	exporterCountries = []string{"China", "India", "USA", "Germany", "Japan", "Switzerland", "Belgium", "Ireland"}
	importerCountries = []string{"USA", "Germany", "France", "UK", "Japan", "Canada", "Australia", "Spain"}
)

func (s *Sources) generateTrade(molecule string) *TradePayload {
	exporters := s.tradePartners(exporterCountries, 100000, 1500000, 1, 50, -10, 40, 5, 25)
	importers := s.tradePartners(importerCountries, 80000, 1200000, 1, 45, -12, 35, 5, 20)

	quarters := make([]QuarterlyTrend, 0, 4)
	for q := 1; q <= 4; q++ {
		quarters = append(quarters, QuarterlyTrend{
			Quarter:             fmt.Sprintf("Q%d 2024", q),
			ImportVolumeKg:      float64(s.between(100000, 1200000)),
			ExportVolumeKg:      float64(s.between(80000, 1100000)),
			AvgImportPriceUSDKg: round(s.uniform(10, 90), 2),
			AvgExportPriceUSDKg: round(s.uniform(12, 95), 2),
		})
	}

	prices := make([]float64, 0, len(exporters)+len(importers))
	for _, p := range exporters {
		prices = append(prices, p.UnitPriceUSDPerKg)
	}
	for _, p := range importers {
		prices = append(prices, p.UnitPriceUSDPerKg)
	}
	outliers := DetectOutliers(prices, DefaultOutlierThreshold)

	return &TradePayload{
		Molecule:     molecule,
		HSCode:       fmt.Sprintf("%d.%d", s.between(2900, 3004), s.between(10, 90)),
		HSCodeStatus: s.choice([]string{"Specific code available", "Basket code (includes similar molecules)", "Ambiguous - verify"}),
		TradeSummary: TradeSummary{
			TotalImportsKg:         float64(s.between(500000, 5000000)),
			TotalExportsKg:         float64(s.between(400000, 4500000)),
			TotalImportValueUSDMn:  round(s.uniform(5, 150), 2),
			TotalExportValueUSDMn:  round(s.uniform(4, 140), 2),
			ImportGrowthYoYPercent: round(s.uniform(-15, 35), 2),
			ExportGrowthYoYPercent: round(s.uniform(-10, 30), 2),
		},
		TopExporters:    exporters,
		TopImporters:    importers,
		QuarterlyTrends: quarters,
		VolumeVsValueAnalysis: &VolumeValue{
			PriceErosionDetected:    s.coin(),
			PriceErosionPercent:     round(s.uniform(-15, 5), 2),
			PremiumPricingRegions:   s.sample([]string{"Japan", "USA", "Switzerland", "Germany"}, s.between(1, 3)),
			CommodityPricingRegions: s.sample([]string{"India", "China", "Vietnam", "Thailand"}, s.between(1, 3)),
			PriceElasticity:         round(s.uniform(0.5, 2.5), 2),
		},
		TrendDetection: &TrendDetection{
			RecentSpikesDetected:      s.coin(),
			Q3ImportSpikePercent:      round(s.uniform(-10, 45), 2),
			LikelyDriver:              s.choice([]string{"New product launch", "Supply diversification", "Stockpiling", "Market expansion"}),
			SupplyChainDisruptionRisk: s.choice([]string{"LOW", "MEDIUM", "HIGH"}),
		},
		SupplierAnalysis: &SupplierAnalysis{
			ConcentrationRatioTop3:   round(s.uniform(30, 75), 1),
			SupplierDiversification:  s.choice([]string{"Low risk", "Moderate risk", "High concentration"}),
			NewSuppliersEmerging:     s.between(0, 5),
			SupplierReliabilityScore: round(s.uniform(0.6, 0.95), 2),
		},
		UnitStandardization: "All data standardized to kg (conversions: g/kg=1, mt=1000)",
		Anomalies: map[string]any{
			"outlier_transactions_flagged": len(outliers) > 0,
			"outlier_indexes":              outliers,
			"outliers_definition":          "Unit price >2 std dev from mean",
			"suspicious_shipments":         s.between(0, 5),
			"sample_shipments_detected":    s.coin(),
			"rd_shipment_volumes":          float64(s.between(0, 50000)),
		},
		DataQuality: map[string]any{
			"completeness":   fmt.Sprintf("%d%%", s.between(80, 100)),
			"timeliness":     "Updated monthly",
			"accuracy_score": round(s.uniform(0.85, 0.99), 2),
		},
	}
}

func (s *Sources) tradePartners(countries []string, volLo, volHi int, valLo, valHi, growLo, growHi, shareLo, shareHi float64) []TradePartner {
	picked := s.sample(countries, 8)
	out := make([]TradePartner, 0, len(picked))
	for i, country := range picked {
		out = append(out, TradePartner{
			Rank:               i + 1,
			Country:            country,
			VolumeKg:           float64(s.between(volLo, volHi)),
			ValueUSDMillion:    round(s.uniform(valLo, valHi), 2),
			UnitPriceUSDPerKg:  round(s.uniform(5, 100), 2),
			YoYGrowthPercent:   round(s.uniform(growLo, growHi), 2),
			MarketSharePercent: round(s.uniform(shareLo, shareHi), 1),
		})
	}
	return out
}
