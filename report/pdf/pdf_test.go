package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
	chartx "github.com/tanpawarit/pharmapilot/report/chart"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
}

func sampleData() contractx.ResearchData {
	return contractx.ResearchData{
		Summary:    "## Market Overview\n\nMetformin **dominates** oral antidiabetics.\n\n| Year | Revenue |\n|---|---|\n| 2023 | 120 |\n",
		AgentsUsed: []string{"IQVIA Market Analysis", "Clinical Trials"},
		Timestamp:  fixedNow(),
		MarketData: &providerx.MarketPayload{
			Molecule:  "Metformin",
			BrandName: "Glycomet",
			MarketOverview: providerx.MarketOverview{
				TAMUSDMillion:  1500,
				CAGR5YrPercent: 8.4,
			},
			CompetitiveLandscape: providerx.CompetitiveLandscape{
				TopManufacturers: []providerx.Manufacturer{
					{Rank: 1, Manufacturer: "USV", MarketSharePercent: 31},
					{Rank: 2, Manufacturer: "Sun Pharma", MarketSharePercent: 22},
				},
			},
			HistoricalData: []providerx.HistoricalPoint{
				{Year: 2022, RevenueUSDMillion: 100},
				{Year: 2023, RevenueUSDMillion: 120},
				{Year: 2024, RevenueUSDMillion: 131},
			},
		},
		ClinicalTrials: &providerx.TrialsPayload{
			Molecule:          "Metformin",
			TotalActiveTrials: 3,
			PipelineSummary:   &providerx.PipelineSummary{Phase2Count: 1, Phase3Count: 1, Phase4Count: 1},
		},
	}
}

func TestMarkdownLayout(t *testing.T) {
	t.Parallel()

	md := Markdown(sampleData(), "Metformin", fixedNow())

	assert.True(t, strings.HasPrefix(md, "# Innovation Analysis: Metformin\n\n**Date:** 2025-06-01 09:30\n\n## Executive Summary\n\n"))
	assert.Contains(t, md, "## Market Intelligence\n\n- **Molecule:** Metformin\n- **Brand Name:** Glycomet\n")
	assert.Contains(t, md, "- **Historical Data:**\n  - {")
	assert.Contains(t, md, "## Competitive Landscape")
	assert.Contains(t, md, "## Clinical Trials\n\n- **Molecule:** Metformin\n- **Total Active Trials:** 3\n")
	assert.NotContains(t, md, "## Trade Insights")
	assert.NotContains(t, md, "Market Overview:**", "nested objects are skipped")

	for _, id := range []string{chartx.RevenueForecast, chartx.MarketShare, chartx.PipelineSummary} {
		assert.Equal(t, 1, strings.Count(md, chartx.Placeholder(id)), id)
	}
	assert.NotContains(t, md, chartx.Placeholder(chartx.TradeTrends))
}

func TestMarkdownWithoutSummary(t *testing.T) {
	t.Parallel()

	md := Markdown(contractx.ResearchData{}, "X", fixedNow())
	assert.Contains(t, md, "No summary available.")
	assert.NotContains(t, md, "{{CHART:")
}

func TestRenderProducesPDF(t *testing.T) {
	t.Parallel()

	r := New(chartx.New(), WithClock(fixedNow))
	out, err := r.Render(context.Background(), sampleData(), "Metformin")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	raw, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

func TestRenderWithoutCharts(t *testing.T) {
	t.Parallel()

	raw, err := New(nil, WithClock(fixedNow)).Document(context.Background(), contractx.ResearchData{Summary: "Plain text."}, "Aspirin")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

func TestRenderCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Render(ctx, sampleData(), "Metformin")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChartImageRejectsEmptySpec(t *testing.T) {
	t.Parallel()

	_, err := chartImage(contractx.ChartSpec{ID: "empty", Type: "bar"})
	assert.ErrorIs(t, err, contractx.ErrRender)
}
