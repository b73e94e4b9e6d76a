package provider

import (
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// fixtureSet holds curated datasets. A nil set matches nothing.
type fixtureSet struct {
	marketDoc  gjson.Result
	tradeDoc   gjson.Result
	patentsDoc gjson.Result
	trialsDoc  gjson.Result
}

func loadFixtures() *fixtureSet {
	read := func(name string) gjson.Result {
		raw, err := fixtureFS.ReadFile("fixtures/" + name)
		if err != nil || !gjson.ValidBytes(raw) {
			return gjson.Result{}
		}
		return gjson.ParseBytes(raw)
	}
	return &fixtureSet{
		marketDoc:  read("market_overview.json"),
		tradeDoc:   read("exim_data.json"),
		patentsDoc: read("uspto_patents_detailed.json"),
		trialsDoc:  read("clinical_trials_mock.json"),
	}
}

func mentions(haystack, molecule string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(molecule))
}

func fixtureQuality(source string) map[string]any {
	return map[string]any{"source": source, "match": "Direct Match"}
}

func (f *fixtureSet) market(molecule string) (*MarketPayload, bool) {
	if f == nil || molecule == "" || !f.marketDoc.IsObject() {
		return nil, false
	}

	var segment gjson.Result
	f.marketDoc.ForEach(func(_, value gjson.Result) bool {
		if mentions(value.Raw, molecule) {
			segment = value
			return false
		}
		return true
	})
	if !segment.Exists() {
		return nil, false
	}

	history := yearSeries(segment.Get("historical_market_size_usd_mn"))
	cagr := segment.Get("cagr_percent_2024_2028").Float()
	if cagr == 0 {
		if derived, ok := HistoryCAGR(history); ok {
			cagr = round(derived, 2)
		}
	}
	maturity := "Mature"
	if cagr > 5 {
		maturity = "Growth"
	}
	var drivers []string
	for _, d := range segment.Get("drivers").Array() {
		if len(drivers) == 2 {
			break
		}
		drivers = append(drivers, d.String())
	}
	current := segment.Get("historical_market_size_usd_mn.2024").Float()
	tam := segment.Get("forecast_market_size_usd_mn.2028").Float()
	if tam == 0 && current > 0 {
		tam = round(Compound(current, cagr, 4), 2)
	}
	country := segment.Get("country").String()
	if country == "" {
		country = "Global"
	}

	brand := segment.Get("brand_leaders.0.brand").String()
	if brand == "" {
		brand = molecule
	}

	p := &MarketPayload{
		Molecule:  molecule,
		BrandName: brand,
		MarketOverview: MarketOverview{
			TAMUSDMillion:            tam,
			CurrentMarketSize2024USD: current,
			CAGR5YrPercent:           cagr,
			MarketTrend:              "Growth driven by " + strings.Join(drivers, ", "),
			TherapeuticArea:          segment.Get("therapy_area").String(),
			MarketMaturity:           maturity,
		},
		CompetitiveLandscape: CompetitiveLandscape{
			TotalCompetitors: int(segment.Get("competitor_count").Int()),
		},
		RegionalBreakdown: map[string]RegionShare{
			country: {RevenueUSDMillion: current, Percent: 100, GrowthRatePercent: cagr},
		},
		DataQuality: fixtureQuality("market_overview.json"),
	}

	for i, leader := range segment.Get("brand_leaders").Array() {
		company := leader.Get("company").String()
		if company == "" {
			company = "Unknown"
		}
		p.CompetitiveLandscape.TopManufacturers = append(p.CompetitiveLandscape.TopManufacturers, Manufacturer{
			Rank:               i + 1,
			Manufacturer:       company,
			MarketSharePercent: leader.Get("market_share_percent").Float(),
			Brand:              leader.Get("brand").String(),
		})
	}

	p.HistoricalData = history
	return p, true
}

// yearSeries converts a {"2020": 10, "2021": 12} object into ordered points with growth.
func yearSeries(obj gjson.Result) []HistoricalPoint {
	var points []HistoricalPoint
	obj.ForEach(func(key, value gjson.Result) bool {
		year, err := strconv.Atoi(key.String())
		if err == nil {
			points = append(points, HistoricalPoint{Year: year, RevenueUSDMillion: value.Float()})
		}
		return true
	})
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	for i := 1; i < len(points); i++ {
		if prev := points[i-1].RevenueUSDMillion; prev > 0 {
			points[i].GrowthPercent = round((points[i].RevenueUSDMillion-prev)/prev*100, 2)
		}
	}
	return points
}

func (f *fixtureSet) trade(molecule string) (*TradePayload, bool) {
	if f == nil || molecule == "" || !f.tradeDoc.IsObject() {
		return nil, false
	}

	lists := []struct {
		path, key, category string
	}{
		{"api_exports", "molecule", "API Export"},
		{"api_imports", "molecule", "API Import"},
		{"formulation_exports", "formulation_name", "Formulation Export"},
	}
	var (
		item     gjson.Result
		category string
	)
	for _, l := range lists {
		for _, candidate := range f.tradeDoc.Get(l.path).Array() {
			if mentions(candidate.Get(l.key).String(), molecule) {
				item, category = candidate, l.category
				break
			}
		}
		if item.Exists() {
			break
		}
	}
	if !item.Exists() {
		return nil, false
	}

	hs := item.Get("hs_code").String()
	if hs == "" {
		hs = "N/A"
	}
	p := &TradePayload{
		Molecule:    molecule,
		HSCode:      hs,
		Category:    category,
		DataQuality: fixtureQuality("exim_data.json"),
	}

	exportKg, _ := StandardizeUnits(item.Get("yearwise_volume_tonnes.2024").Float(), "mt", "kg")
	importKg, _ := StandardizeUnits(item.Get("yearwise_import_volume_tonnes.2024").Float(), "mt", "kg")
	p.TradeSummary = TradeSummary{
		TotalExportsKg:        exportKg,
		TotalImportsKg:        importKg,
		TotalExportValueUSDMn: item.Get("export_value_usd_mn.2024").Float(),
		TotalImportValueUSDMn: item.Get("import_value_usd_mn.2024").Float(),
	}
	p.TradeSummary.ExportGrowthYoYPercent = yoy(item.Get("yearwise_volume_tonnes"))
	p.TradeSummary.ImportGrowthYoYPercent = yoy(item.Get("yearwise_import_volume_tonnes"))

	for _, q := range item.Get("quarterly_trends").Array() {
		p.QuarterlyTrends = append(p.QuarterlyTrends, QuarterlyTrend{
			Quarter:             q.Get("quarter").String(),
			ImportVolumeKg:      q.Get("import_volume_kg").Float(),
			ExportVolumeKg:      q.Get("export_volume_kg").Float(),
			AvgImportPriceUSDKg: q.Get("avg_import_price_usd_kg").Float(),
			AvgExportPriceUSDKg: q.Get("avg_export_price_usd_kg").Float(),
		})
	}

	if details, ok := item.Value().(map[string]any); ok {
		p.Details = details
	}
	return p, true
}

func yoy(series gjson.Result) float64 {
	points := yearSeries(series)
	if len(points) < 2 {
		return 0
	}
	return points[len(points)-1].GrowthPercent
}

func (f *fixtureSet) patents(molecule string) (*PatentPayload, bool) {
	if f == nil || molecule == "" || !f.patentsDoc.IsObject() {
		return nil, false
	}

	var family gjson.Result
	for _, candidate := range f.patentsDoc.Get("patent_families").Array() {
		if mentions(candidate.Get("molecule").String(), molecule) {
			family = candidate
			break
		}
	}
	if !family.Exists() {
		return nil, false
	}

	rep := family.Get("representative_patent")
	risk := "LOW RISK"
	if family.Get("freedom_to_operate_risk").String() == "High" {
		risk = "HIGH RISK"
	}
	usExpiry := family.Get("expiry_years.us").String()
	if usExpiry == "" {
		usExpiry = "N/A"
	}

	var cases []string
	for _, c := range family.Get("litigation_summary").Array() {
		cases = append(cases, c.String())
	}
	recent := "None"
	if len(cases) > 0 {
		recent = cases[0]
	}

	expiryYears, _ := family.Get("expiry_years").Value().(map[string]any)

	return &PatentPayload{
		Molecule:            molecule,
		TotalPatentFamilies: 1,
		Patents: []Patent{{
			PatentID:     rep.Get("patent_number").String(),
			Jurisdiction: rep.Get("country").String(),
			Title:        rep.Get("main_claim").String(),
			PatentType:   family.Get("patent_types.0").String(),
			FilingDate:   rep.Get("filing_date").String(),
			GrantDate:    rep.Get("grant_date").String(),
			ExpiryDate:   fmt.Sprintf("%s-01-01", usExpiry),
			Status:       rep.Get("legal_status").String(),
			Assignee:     "Innovator",
			RiskFlag:     risk,
		}},
		LitigationStatus: LitigationStatus{
			ActiveCases:      len(cases),
			RecentLitigation: recent,
			Cases:            cases,
		},
		LossOfExclusivity: LossOfExclusivity{
			PrimaryPatentExpiry:   fmt.Sprintf("%s-01-01", usExpiry),
			EstimatedGenericEntry: family.Get("generic_entry_estimate_range").String(),
			ExpiryYears:           expiryYears,
		},
		DataQuality: fixtureQuality("uspto_patents_detailed.json"),
	}, true
}

func (f *fixtureSet) trials(molecule string) (*TrialsPayload, bool) {
	if f == nil || molecule == "" || !f.trialsDoc.IsObject() {
		return nil, false
	}

	byIndication := make(map[string][]Trial)
	matched := 0
	for _, t := range f.trialsDoc.Get("trials").Array() {
		if !mentions(t.Get("molecule").String(), molecule) {
			continue
		}
		area := t.Get("therapy_area").String()
		if area == "" {
			area = "Other"
		}
		byIndication[area] = append(byIndication[area], Trial{
			NCTID:               t.Get("trial_id").String(),
			Title:               t.Get("title").String(),
			Phase:               t.Get("phase").String(),
			Status:              t.Get("status").String(),
			Sponsor:             t.Get("sponsor.name").String(),
			Enrollment:          int(t.Get("sample_size").Int()),
			StartDate:           t.Get("start_date").String(),
			EstimatedCompletion: t.Get("estimated_completion_date").String(),
			PrimaryEndpoints:    []string{t.Get("indication_specifics.primary_endpoint").String()},
		})
		matched++
	}
	if matched == 0 {
		return nil, false
	}

	summary := phaseCounts(byIndication)
	recruiting := 0
	for _, trials := range byIndication {
		for _, t := range trials {
			if t.Status == "Recruiting" {
				recruiting++
			}
		}
	}
	return &TrialsPayload{
		Molecule:              molecule,
		TotalActiveTrials:     matched,
		TotalRecruitingTrials: recruiting,
		TrialsByIndication:    byIndication,
		PipelineSummary:       &summary,
		Metadata:              fixtureQuality("clinical_trials_mock.json"),
	}, true
}
