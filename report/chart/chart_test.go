package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
)

func sampleData() contractx.ResearchData {
	return contractx.ResearchData{
		MarketData: &providerx.MarketPayload{
			Molecule: "Metformin",
			HistoricalData: []providerx.HistoricalPoint{
				{Year: 2022, RevenueUSDMillion: 120},
				{Year: 2020, RevenueUSDMillion: 100},
				{Year: 2021, RevenueUSDMillion: 110},
			},
			CompetitiveLandscape: providerx.CompetitiveLandscape{
				TopManufacturers: []providerx.Manufacturer{
					{Manufacturer: "A", MarketSharePercent: 5},
					{Manufacturer: "B", MarketSharePercent: 30},
					{Manufacturer: "C", MarketSharePercent: 12},
					{Manufacturer: "D", MarketSharePercent: 20},
					{Manufacturer: "E", MarketSharePercent: 8},
					{Manufacturer: "F", MarketSharePercent: 25},
				},
			},
		},
		ClinicalTrials: &providerx.TrialsPayload{
			PipelineSummary: &providerx.PipelineSummary{Phase1Count: 1, Phase2Count: 2, Phase3Count: 3},
		},
		TradeData: &providerx.TradePayload{
			QuarterlyTrends: []providerx.QuarterlyTrend{
				{Quarter: "Q1 2024", ImportVolumeKg: 10, ExportVolumeKg: 20},
				{Quarter: "Q2 2024", ImportVolumeKg: 15, ExportVolumeKg: 25},
			},
		},
	}
}

func TestGenerateAllCharts(t *testing.T) {
	t.Parallel()

	specs := New().Generate(sampleData())
	require.Len(t, specs, 4)

	ids := make([]string, 0, len(specs))
	for _, s := range specs {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{RevenueForecast, MarketShare, PipelineSummary, TradeTrends}, ids)

	revenue := specs[0]
	assert.Equal(t, "Revenue Forecast: Metformin", revenue.Title)
	assert.Equal(t, "line", revenue.Type)
	assert.Equal(t, []string{"2020", "2021", "2022"}, revenue.Labels)
	assert.Equal(t, []float64{100, 110, 120}, revenue.Values)
	assert.Equal(t, "Revenue (USD $M)", revenue.Datasets[0].Label)

	share := specs[1]
	assert.Equal(t, "pie", share.Type)
	assert.Equal(t, []string{"B", "F", "D", "C", "E"}, share.Labels)
	assert.Equal(t, "Market Share (%)", share.Datasets[0].Label)

	pipeline := specs[2]
	assert.Equal(t, []string{"Phase 1", "Phase 2", "Phase 3", "Phase 4"}, pipeline.Labels)
	assert.Equal(t, []float64{1, 2, 3, 0}, pipeline.Values)
	assert.Equal(t, "Number of Trials", pipeline.Datasets[0].Label)

	trade := specs[3]
	require.Len(t, trade.Datasets, 2)
	assert.Equal(t, "Imports (kg)", trade.Datasets[0].Label)
	assert.Equal(t, []float64{20, 25}, trade.Datasets[1].Data)
}

func TestGenerateOmitsMissingData(t *testing.T) {
	t.Parallel()

	specs := New().Generate(contractx.ResearchData{Summary: "text only"})
	assert.NotNil(t, specs)
	assert.Empty(t, specs)

	specs = New().Generate(contractx.ResearchData{
		MarketData: &providerx.MarketPayload{Molecule: "X"},
	})
	assert.Empty(t, specs)
}

func TestInjectPlaceholders(t *testing.T) {
	t.Parallel()

	text := "## Market Overview\nTAM is growing.\n\n## Clinical Trials\nThree trials.\n\n## Recommendations\nAct."
	got := InjectPlaceholders(text)

	want := "## Market Overview\nTAM is growing.\n\n{{CHART:revenue_forecast}}\n\n\n## Clinical Trials\nThree trials.\n\n{{CHART:pipeline_summary}}\n\n\n## Recommendations\nAct."
	assert.Equal(t, want, got)
}

func TestInjectPlaceholdersAppliesEachPairOnce(t *testing.T) {
	t.Parallel()

	text := "Market and Revenue notes\n\nmore"
	got := InjectPlaceholders(text)
	assert.Equal(t, 1, strings.Count(got, Placeholder(RevenueForecast)))

	again := InjectPlaceholders(got)
	assert.Equal(t, got, again)
}

func TestInjectPlaceholdersSkipsWithoutParagraphBreak(t *testing.T) {
	t.Parallel()

	text := "Intro\n\nTrade volumes rose sharply."
	assert.Equal(t, text, InjectPlaceholders(text))
}

func TestInjectPlaceholdersIsCaseSensitive(t *testing.T) {
	t.Parallel()

	text := "market share is flat\n\nend"
	assert.Equal(t, text, InjectPlaceholders(text))
}
