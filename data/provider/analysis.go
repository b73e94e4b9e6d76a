package provider

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultFuzzyThreshold   = 0.6
	DefaultOutlierThreshold = 2.0
)

var unitToKg = map[string]float64{
	"g":          0.001,
	"kg":         1,
	"mt":         1000,
	"metric_ton": 1000,
	"ton":        1000,
}

// StandardizeUnits converts between g, kg and metric tons. Unknown units return the value unchanged.
func StandardizeUnits(value float64, from, to string) (float64, bool) {
	fromFactor, okFrom := unitToKg[strings.ToLower(strings.TrimSpace(from))]
	toFactor, okTo := unitToKg[strings.ToLower(strings.TrimSpace(to))]
	if !okFrom || !okTo {
		return value, false
	}
	return value * fromFactor / toFactor, true
}

// DetectOutliers returns indexes of values further than threshold standard deviations from the mean.
func DetectOutliers(values []float64, threshold float64) []int {
	if len(values) < 2 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultOutlierThreshold
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(values)))
	if stdDev == 0 {
		return nil
	}

	var out []int
	for i, v := range values {
		if math.Abs(v-mean) > threshold*stdDev {
			out = append(out, i)
		}
	}
	return out
}

// CAGR returns the compound annual growth rate, in percent, between start and end over years.
func CAGR(start, end, years float64) (float64, bool) {
	if start <= 0 || end < 0 || years <= 0 {
		return 0, false
	}
	return (math.Pow(end/start, 1/years) - 1) * 100, true
}

// Compound grows value at cagrPercent for the given number of years. Negative years discount.
func Compound(value, cagrPercent float64, years int) float64 {
	return value * math.Pow(1+cagrPercent/100, float64(years))
}

// Project returns the next years of value compounded at cagrPercent, one entry per year.
func Project(value, cagrPercent float64, years int) []float64 {
	if years <= 0 {
		return nil
	}
	out := make([]float64, years)
	for i := range out {
		out[i] = round(Compound(value, cagrPercent, i+1), 2)
	}
	return out
}

// HistoryCAGR is the CAGR between the first and last points of an ordered history.
func HistoryCAGR(points []HistoricalPoint) (float64, bool) {
	if len(points) < 2 {
		return 0, false
	}
	first, last := points[0], points[len(points)-1]
	return CAGR(first.RevenueUSDMillion, last.RevenueUSDMillion, float64(last.Year-first.Year))
}

type DataGapFlags struct {
	IsYTD     bool     `json:"is_ytd"`
	IsPartial bool     `json:"is_partial"`
	Flags     []string `json:"flags"`
}

// DetectDataGaps flags year-to-date and partial/estimated data in a payload.
func DetectDataGaps(payload any) DataGapFlags {
	text := strings.ToLower(fmt.Sprintf("%+v", payload))
	flags := DataGapFlags{Flags: []string{}}
	if strings.Contains(text, "ytd_data") || strings.Contains(text, "year_to_date") {
		flags.IsYTD = true
		flags.Flags = append(flags.Flags, "Year-to-Date (YTD) data detected; full-year estimates may be annualized from Q1-Q3")
	}
	if strings.Contains(text, "estimated") || strings.Contains(text, "partial") {
		flags.IsPartial = true
		flags.Flags = append(flags.Flags, "Partial or estimated data; verify with additional sources")
	}
	return flags
}

// FuzzyMatch reports whether a and b are similar enough, using a normalized edit distance ratio.
func FuzzyMatch(a, b string, threshold float64) bool {
	return similarity(strings.ToLower(a), strings.ToLower(b)) >= threshold
}

func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
