package pdf

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	chartx "github.com/tanpawarit/pharmapilot/report/chart"
	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxListItems = 5

var titleCaser = cases.Title(language.English)

type section struct {
	title   string
	payload any
	chartID string
}

// Markdown lays out the report body. Each data section ends with its chart placeholder.
func Markdown(data contractx.ResearchData, molecule string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Innovation Analysis: %s\n\n", molecule)
	fmt.Fprintf(&b, "**Date:** %s\n\n", now.Format("2006-01-02 15:04"))

	b.WriteString("## Executive Summary\n\n")
	summary := strings.TrimSpace(data.Summary)
	if summary == "" {
		summary = "No summary available."
	}
	b.WriteString(summary)
	b.WriteString("\n\n")

	var sections []section
	if data.MarketData != nil {
		sections = append(sections,
			section{"Market Intelligence", data.MarketData, chartx.RevenueForecast},
			section{"Competitive Landscape", data.MarketData, chartx.MarketShare},
		)
	}
	if data.ClinicalTrials != nil {
		sections = append(sections, section{"Clinical Trials", data.ClinicalTrials, chartx.PipelineSummary})
	}
	if data.TradeData != nil {
		sections = append(sections, section{"Trade Insights", data.TradeData, chartx.TradeTrends})
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n", s.title)
		writeBullets(&b, s.payload)
		fmt.Fprintf(&b, "\n%s\n\n", chartx.Placeholder(s.chartID))
	}
	return b.String()
}

// writeBullets renders scalar fields as key/value bullets and arrays as short nested lists.
// Nested objects are skipped.
func writeBullets(b *strings.Builder, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	gjson.ParseBytes(raw).ForEach(func(key, val gjson.Result) bool {
		label := titleCaser.String(strings.TrimSpace(strings.ReplaceAll(key.String(), "_", " ")))
		switch {
		case val.IsArray():
			fmt.Fprintf(b, "- **%s:**\n", label)
			for i, item := range val.Array() {
				if i == maxListItems {
					break
				}
				fmt.Fprintf(b, "  - %s\n", item.String())
			}
		case val.IsObject():
		default:
			fmt.Fprintf(b, "- **%s:** %s\n", label, val.String())
		}
		return true
	})
}
