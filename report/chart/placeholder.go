package chart

import "strings"

// Placeholder is the token the frontend replaces with the chart of the given id.
func Placeholder(id string) string {
	return "{{CHART:" + id + "}}"
}

var insertions = []struct {
	keyword string
	chartID string
}{
	{"Market", RevenueForecast},
	{"Revenue", RevenueForecast},
	{"Competitive", MarketShare},
	{"Competitor", MarketShare},
	{"Clinical", PipelineSummary},
	{"Pipeline", PipelineSummary},
	{"Trade", TradeTrends},
	{"Import", TradeTrends},
	{"Export", TradeTrends},
}

// InjectPlaceholders inserts each chart placeholder at the first paragraph break after its keyword.
// A pair is skipped when its placeholder is already present or no paragraph break follows the keyword.
func InjectPlaceholders(text string) string {
	for _, ins := range insertions {
		placeholder := Placeholder(ins.chartID)
		if strings.Contains(text, placeholder) {
			continue
		}
		idx := strings.Index(text, ins.keyword)
		if idx < 0 {
			continue
		}
		next := strings.Index(text[idx:], "\n\n")
		if next < 0 {
			continue
		}
		at := idx + next
		text = text[:at] + "\n\n" + placeholder + "\n" + text[at:]
	}
	return text
}
