// Package chart turns research data into frontend chart specs and marks where they belong in the answer.
package chart

import (
	"slices"
	"sort"
	"strconv"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
)

const (
	RevenueForecast = "revenue_forecast"
	MarketShare     = "market_share"
	PipelineSummary = "pipeline_summary"
	TradeTrends     = "trade_trends"
)

var pieColors = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6"}

type Generator struct{}

var _ contractx.ChartGenerator = Generator{}

func New() Generator {
	return Generator{}
}

// Generate returns one spec per chart whose data is present, in a fixed order.
func (Generator) Generate(data contractx.ResearchData) []contractx.ChartSpec {
	out := []contractx.ChartSpec{}
	if spec, ok := revenueForecast(data.MarketData); ok {
		out = append(out, spec)
	}
	if spec, ok := marketShare(data.MarketData); ok {
		out = append(out, spec)
	}
	if spec, ok := pipelineSummary(data.ClinicalTrials); ok {
		out = append(out, spec)
	}
	if spec, ok := tradeTrends(data.TradeData); ok {
		out = append(out, spec)
	}
	return out
}

func revenueForecast(m *providerx.MarketPayload) (contractx.ChartSpec, bool) {
	if m == nil || len(m.HistoricalData) == 0 {
		return contractx.ChartSpec{}, false
	}
	history := slices.Clone(m.HistoricalData)
	sort.SliceStable(history, func(i, j int) bool { return history[i].Year < history[j].Year })

	labels := make([]string, 0, len(history))
	values := make([]float64, 0, len(history))
	for _, h := range history {
		labels = append(labels, strconv.Itoa(h.Year))
		values = append(values, h.RevenueUSDMillion)
	}

	molecule := m.Molecule
	if molecule == "" {
		molecule = "Molecule"
	}
	return contractx.ChartSpec{
		ID:     RevenueForecast,
		Title:  "Revenue Forecast: " + molecule,
		Type:   "line",
		Labels: labels,
		Values: values,
		Datasets: []contractx.ChartDataset{{
			Label:           "Revenue (USD $M)",
			Data:            values,
			BorderColor:     "#4F46E5",
			BackgroundColor: "rgba(79, 70, 229, 0.2)",
			Fill:            true,
		}},
	}, true
}

func marketShare(m *providerx.MarketPayload) (contractx.ChartSpec, bool) {
	if m == nil || len(m.CompetitiveLandscape.TopManufacturers) == 0 {
		return contractx.ChartSpec{}, false
	}
	top := slices.Clone(m.CompetitiveLandscape.TopManufacturers)
	sort.SliceStable(top, func(i, j int) bool { return top[i].MarketSharePercent > top[j].MarketSharePercent })
	if len(top) > 5 {
		top = top[:5]
	}

	labels := make([]string, 0, len(top))
	values := make([]float64, 0, len(top))
	for _, c := range top {
		labels = append(labels, c.Manufacturer)
		values = append(values, c.MarketSharePercent)
	}
	return contractx.ChartSpec{
		ID:     MarketShare,
		Title:  "Top 5 Competitors by Market Share",
		Type:   "pie",
		Labels: labels,
		Values: values,
		Datasets: []contractx.ChartDataset{{
			Label:           "Market Share (%)",
			Data:            values,
			BackgroundColor: slices.Clone(pieColors),
		}},
	}, true
}

func pipelineSummary(t *providerx.TrialsPayload) (contractx.ChartSpec, bool) {
	if t == nil || t.PipelineSummary == nil {
		return contractx.ChartSpec{}, false
	}
	counts := t.PipelineSummary.Counts()
	values := make([]float64, 0, len(counts))
	for _, c := range counts {
		values = append(values, float64(c))
	}
	return contractx.ChartSpec{
		ID:     PipelineSummary,
		Title:  "Clinical Pipeline by Phase",
		Type:   "bar",
		Labels: []string{"Phase 1", "Phase 2", "Phase 3", "Phase 4"},
		Values: values,
		Datasets: []contractx.ChartDataset{{
			Label:           "Number of Trials",
			Data:            values,
			BackgroundColor: "#0EA5E9",
		}},
	}, true
}

func tradeTrends(t *providerx.TradePayload) (contractx.ChartSpec, bool) {
	if t == nil || len(t.QuarterlyTrends) == 0 {
		return contractx.ChartSpec{}, false
	}
	labels := make([]string, 0, len(t.QuarterlyTrends))
	imports := make([]float64, 0, len(t.QuarterlyTrends))
	exports := make([]float64, 0, len(t.QuarterlyTrends))
	for _, q := range t.QuarterlyTrends {
		labels = append(labels, q.Quarter)
		imports = append(imports, q.ImportVolumeKg)
		exports = append(exports, q.ExportVolumeKg)
	}
	return contractx.ChartSpec{
		ID:     TradeTrends,
		Title:  "Quarterly Import/Export Volume",
		Type:   "line",
		Labels: labels,
		Values: imports,
		Datasets: []contractx.ChartDataset{
			{Label: "Imports (kg)", Data: imports, BackgroundColor: "#10B981"},
			{Label: "Exports (kg)", Data: exports, BackgroundColor: "#F43F5E"},
		},
	}, true
}
