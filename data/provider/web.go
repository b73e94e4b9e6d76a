package provider

import (
	"fmt"
	"strings"
	"time"
)

type webSource struct {
	name        string
	credibility int
	topic       string
}

var trustedSources = []webSource{
	{"FDA.gov", 10, "Regulatory approval"},
	{"EMA.europa.eu", 10, "European regulatory update"},
	{"Nature Medicine", 9, "Clinical research study"},
	{"The Lancet", 9, "Peer-reviewed publication"},
	{"American Heart Association", 8, "Clinical guidelines"},
	{"NIH.gov", 9, "Government research"},
	{"JAMA", 9, "Medical journal article"},
	{"New England Journal of Medicine", 9, "Clinical trial results"},
	{"WHO Guidelines", 10, "International guidelines"},
	{"Reuters Health", 7, "Health news"},
}

func (s *Sources) generateWeb(query string) *WebPayload {
	order := s.rng.Perm(len(trustedSources))[:s.between(4, 7)]
	slug := strings.ReplaceAll(query, " ", "-")

	results := make([]WebResult, 0, len(order))
	for i, idx := range order {
		src := trustedSources[idx]
		sourceType := "VERIFY"
		if src.credibility >= 8 {
			sourceType = "HIGH-CREDIBILITY"
		}
		r := WebResult{
			Rank:             i + 1,
			Title:            fmt.Sprintf("Latest developments in %s: %s", query, src.topic),
			Source:           src.name,
			URL:              fmt.Sprintf("https://%s/articles/%s-%d", strings.ReplaceAll(strings.ToLower(src.name), " ", "-"), slug, i),
			PublicationDate:  s.daysAgo(1, 180),
			Summary:          fmt.Sprintf("Comprehensive article on %s discussing latest advances and clinical implications", query),
			CredibilityScore: src.credibility,
			SourceType:       sourceType,
			ContentType:      s.choice([]string{"Research Study", "Guidelines", "News", "Opinion", "Meta-Analysis"}),
			Snippet:          fmt.Sprintf("Recent study shows %s for %s", s.choice([]string{"promising results", "safety concerns", "efficacy data"}), query),
			AccessStatus:     s.choice([]string{"Open Access", "Paywalled", "Free Summary Available"}),
		}
		if s.coin() {
			r.OpenAccessLink = fmt.Sprintf("https://pubmedcentral.nih.gov/articles/%d", s.between(1000000, 9999999))
		}
		results = append(results, r)
	}

	today := s.now().Format(time.DateOnly)
	safetyImpact := "Moderate"
	if s.coin() {
		safetyImpact = "Critical"
	}

	return &WebPayload{
		Query:        query,
		TotalResults: s.between(100, 5000),
		ResultsShown: len(results),
		Results:      results,
		Guidelines: map[string]any{
			"guidelines_found":         s.between(2, 5),
			"first_line_treatment":     fmt.Sprintf("Current %s guidelines recommend %s for %s", s.choice([]string{"FDA", "EMA", "WHO"}), query, s.choice(indications)),
			"second_line_alternatives": "Alternative treatments: " + strings.Join(s.sample([]string{"Drug A", "Drug B", "Drug C", "Combination therapy"}, 2), ", "),
			"guideline_source":         s.choice([]string{"FDA", "EMA", "WHO", "NICE", "ASCO"}),
			"guideline_year":           2024,
			"date_verified":            today,
		},
		RecentNews: []NewsItem{
			{
				Headline: "FDA approves new indication for " + query,
				Date:     s.daysAgo(1, 90),
				Category: "Regulatory Approval",
				Impact:   "High",
				URL:      fmt.Sprintf("https://fda.gov/news/%d", s.between(100000, 999999)),
			},
			{
				Headline: fmt.Sprintf("Major acquisition in %s space", query),
				Date:     s.daysAgo(1, 120),
				Category: "M&A",
				Impact:   "Medium",
				URL:      fmt.Sprintf("https://reuters.com/health/%d", s.between(100000, 999999)),
			},
			{
				Headline: "Safety alert issued for " + query,
				Date:     s.daysAgo(1, 60),
				Category: "Safety Alert",
				Impact:   safetyImpact,
				URL:      fmt.Sprintf("https://fda.gov/safety/%d", s.between(100000, 999999)),
			},
		},
		EmergingTrends: []string{
			"Increased focus on " + s.choice([]string{"personalized medicine", "combination therapies", "rare indications"}),
			"Growing interest in " + s.choice([]string{"digital health integration", "patient monitoring", "real-world evidence"}),
			"Shift toward " + s.choice([]string{"home-based treatment", "long-acting formulations", "fixed-dose combinations"}),
		},
		CompetitiveIntelligence: map[string]any{
			"competitor_approvals": s.between(0, 3),
			"pipeline_updates":     s.between(1, 5),
			"market_share_shifts":  s.choice([]string{"No significant changes", "New entrant gaining traction", "Leader consolidating position"}),
		},
		Metadata: map[string]any{
			"source_filter":         "Whitelisted (FDA, EMA, NIH, journals)",
			"social_media_excluded": true,
			"freshness":             "Results from last 180 days",
			"search_completeness":   fmt.Sprintf("%d%%", s.between(90, 100)),
			"last_update":           today,
		},
	}
}
