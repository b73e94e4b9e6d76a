package provider

// MarketPayload mirrors the IQVIA market intelligence response.
type MarketPayload struct {
	Molecule                string                 `json:"molecule"`
	BrandName               string                 `json:"brand_name"`
	MarketOverview          MarketOverview         `json:"market_overview"`
	CompetitiveLandscape    CompetitiveLandscape   `json:"competitive_landscape"`
	FormulationSegmentation map[string]Segment     `json:"formulation_segmentation,omitempty"`
	RegionalBreakdown       map[string]RegionShare `json:"regional_breakdown,omitempty"`
	HistoricalData          []HistoricalPoint      `json:"historical_data"`
	DosageStrengthBreakdown map[string]Segment     `json:"dosage_strength_breakdown,omitempty"`
	DataQuality             map[string]any         `json:"_data_quality,omitempty"`
	Metadata                map[string]any         `json:"_metadata,omitempty"`
}

type MarketOverview struct {
	TAMUSDMillion            float64 `json:"tam_usd_million"`
	CurrentMarketSize2024USD float64 `json:"current_market_size_2024_usd_million"`
	CAGR5YrPercent           float64 `json:"cagr_5yr_percent"`
	MarketTrend              string  `json:"market_trend"`
	TherapeuticArea          string  `json:"therapeutic_area"`
	MarketMaturity           string  `json:"market_maturity"`
}

type CompetitiveLandscape struct {
	TotalCompetitors     int            `json:"total_competitors"`
	TopManufacturers     []Manufacturer `json:"top_10_manufacturers"`
	HHIIndex             float64        `json:"hhi_index,omitempty"`
	CompetitiveIntensity string         `json:"competitive_intensity,omitempty"`
}

type Manufacturer struct {
	Rank                  int     `json:"rank"`
	Manufacturer          string  `json:"manufacturer"`
	MarketSharePercent    float64 `json:"market_share_percent"`
	Revenue2024USDMillion float64 `json:"revenue_2024_usd_million,omitempty"`
	YoYGrowthPercent      float64 `json:"yoy_growth_percent,omitempty"`
	Brand                 string  `json:"brand,omitempty"`
}

type Segment struct {
	RevenueUSDMillion float64 `json:"revenue_usd_million"`
	Percent           float64 `json:"percent"`
	VolumeUnits       float64 `json:"volume_units,omitempty"`
}

type RegionShare struct {
	RevenueUSDMillion float64 `json:"revenue_usd_million"`
	Percent           float64 `json:"percent"`
	GrowthRatePercent float64 `json:"growth_rate_percent"`
	MarketMaturity    string  `json:"market_maturity,omitempty"`
}

type HistoricalPoint struct {
	Year                   int     `json:"year"`
	RevenueUSDMillion      float64 `json:"revenue_usd_million"`
	VolumeUnits            float64 `json:"volume_units,omitempty"`
	GrowthPercent          float64 `json:"growth_percent"`
	MarketShareTop3Percent float64 `json:"market_share_top3_percent,omitempty"`
}

// TradePayload mirrors the EXIM export/import response.
type TradePayload struct {
	Molecule              string            `json:"molecule"`
	HSCode                string            `json:"hs_code"`
	HSCodeStatus          string            `json:"hs_code_status,omitempty"`
	Category              string            `json:"category,omitempty"`
	TradeSummary          TradeSummary      `json:"trade_summary"`
	TopExporters          []TradePartner    `json:"top_exporters"`
	TopImporters          []TradePartner    `json:"top_importers"`
	QuarterlyTrends       []QuarterlyTrend  `json:"quarterly_trends"`
	VolumeVsValueAnalysis *VolumeValue      `json:"volume_vs_value_analysis,omitempty"`
	TrendDetection        *TrendDetection   `json:"trend_detection,omitempty"`
	SupplierAnalysis      *SupplierAnalysis `json:"supplier_analysis,omitempty"`
	UnitStandardization   string            `json:"unit_standardization,omitempty"`
	Details               map[string]any    `json:"details,omitempty"`
	Anomalies             map[string]any    `json:"_anomalies,omitempty"`
	DataQuality           map[string]any    `json:"_data_quality,omitempty"`
	Metadata              map[string]any    `json:"_metadata,omitempty"`
}

type TradeSummary struct {
	TotalImportsKg         float64 `json:"total_imports_kg"`
	TotalExportsKg         float64 `json:"total_exports_kg"`
	TotalImportValueUSDMn  float64 `json:"total_import_value_usd_million"`
	TotalExportValueUSDMn  float64 `json:"total_export_value_usd_million"`
	ImportGrowthYoYPercent float64 `json:"import_growth_yoy_percent"`
	ExportGrowthYoYPercent float64 `json:"export_growth_yoy_percent"`
}

type TradePartner struct {
	Rank               int     `json:"rank"`
	Country            string  `json:"country"`
	VolumeKg           float64 `json:"volume_kg"`
	ValueUSDMillion    float64 `json:"value_usd_million"`
	UnitPriceUSDPerKg  float64 `json:"unit_price_usd_per_kg"`
	YoYGrowthPercent   float64 `json:"yoy_growth_percent"`
	MarketSharePercent float64 `json:"market_share_percent"`
}

type QuarterlyTrend struct {
	Quarter             string  `json:"quarter"`
	ImportVolumeKg      float64 `json:"import_volume_kg"`
	ExportVolumeKg      float64 `json:"export_volume_kg"`
	AvgImportPriceUSDKg float64 `json:"avg_import_price_usd_kg"`
	AvgExportPriceUSDKg float64 `json:"avg_export_price_usd_kg"`
}

type VolumeValue struct {
	PriceErosionDetected    bool     `json:"price_erosion_detected"`
	PriceErosionPercent     float64  `json:"price_erosion_percent"`
	PremiumPricingRegions   []string `json:"premium_pricing_regions"`
	CommodityPricingRegions []string `json:"commodity_pricing_regions"`
	PriceElasticity         float64  `json:"price_elasticity"`
}

type TrendDetection struct {
	RecentSpikesDetected      bool    `json:"recent_spikes_detected"`
	Q3ImportSpikePercent      float64 `json:"q3_2024_import_spike_percent"`
	LikelyDriver              string  `json:"likely_driver"`
	SupplyChainDisruptionRisk string  `json:"supply_chain_disruption_risk"`
}

type SupplierAnalysis struct {
	ConcentrationRatioTop3   float64 `json:"concentration_ratio_top3"`
	SupplierDiversification  string  `json:"supplier_diversification"`
	NewSuppliersEmerging     int     `json:"new_suppliers_emerging"`
	SupplierReliabilityScore float64 `json:"supplier_reliability_score"`
}

// PatentPayload mirrors the patent landscape response.
type PatentPayload struct {
	Molecule            string                  `json:"molecule"`
	TotalPatentFamilies int                     `json:"total_patent_families"`
	Patents             []Patent                `json:"patents"`
	LitigationStatus    LitigationStatus        `json:"litigation_status"`
	LossOfExclusivity   LossOfExclusivity       `json:"loss_of_exclusivity_analysis"`
	JurisdictionSummary map[string]Jurisdiction `json:"jurisdiction_summary,omitempty"`
	DataQuality         map[string]any          `json:"_data_quality,omitempty"`
	Metadata            map[string]any          `json:"_metadata,omitempty"`
}

type Patent struct {
	PatentID         string `json:"patent_id"`
	Jurisdiction     string `json:"jurisdiction"`
	Title            string `json:"title"`
	PatentType       string `json:"patent_type"`
	FilingDate       string `json:"filing_date"`
	GrantDate        string `json:"grant_date"`
	ExpiryDate       string `json:"expiry_date"`
	Status           string `json:"status"`
	Assignee         string `json:"assignee"`
	StrengthRanking  string `json:"strength_ranking,omitempty"`
	RiskFlag         string `json:"_risk_flag"`
	FTOImpact        string `json:"_fto_impact,omitempty"`
	LitigationStatus string `json:"litigation_status,omitempty"`
	LegalFeesStatus  string `json:"legal_fees_status,omitempty"`
}

type LitigationStatus struct {
	ActiveCases           int      `json:"active_cases"`
	OrangeBookCerts       int      `json:"orange_book_certs"`
	ParagraphIVChallenges int      `json:"paragraph_iv_challenges"`
	RecentLitigation      string   `json:"recent_litigation"`
	Settlements           int      `json:"settlements"`
	Cases                 []string `json:"cases,omitempty"`
}

type LossOfExclusivity struct {
	PrimaryPatentExpiry         string         `json:"primary_patent_expiry"`
	SecondaryPatentsCount       int            `json:"secondary_patents_count"`
	EvergreeningStrategy        string         `json:"evergreening_strategy"`
	SPCExtensionPossible        bool           `json:"spc_extension_possible"`
	SPCExpiry                   string         `json:"spc_expiry"`
	PTEExtensionUS              int            `json:"pte_extension_us"`
	EstimatedGenericEntry       string         `json:"estimated_generic_entry"`
	ExpectedPriceErosionPercent float64        `json:"expected_price_erosion_percent"`
	ExpiryYears                 map[string]any `json:"expiry_years,omitempty"`
}

type Jurisdiction struct {
	Status         string `json:"status"`
	PrimaryPatents int    `json:"primary_patents,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
	SPCAvailable   *bool  `json:"spc_available,omitempty"`
	Coverage       string `json:"coverage,omitempty"`
}

// TrialsPayload mirrors the ClinicalTrials.gov style response.
type TrialsPayload struct {
	Molecule              string             `json:"molecule"`
	TotalActiveTrials     int                `json:"total_active_trials"`
	TotalRecruitingTrials int                `json:"total_recruiting_trials"`
	TrialsByIndication    map[string][]Trial `json:"trials_by_indication"`
	PipelineSummary       *PipelineSummary   `json:"pipeline_summary,omitempty"`
	SponsorAnalysis       *SponsorAnalysis   `json:"sponsor_analysis,omitempty"`
	TimelineAnalysis      *TimelineAnalysis  `json:"timeline_analysis,omitempty"`
	Metadata              map[string]any     `json:"_metadata,omitempty"`
}

type Trial struct {
	NCTID               string   `json:"nct_id"`
	Title               string   `json:"title"`
	Phase               string   `json:"phase"`
	Status              string   `json:"status"`
	Sponsor             string   `json:"sponsor"`
	Enrollment          int      `json:"enrollment"`
	TargetEnrollment    int      `json:"target_enrollment,omitempty"`
	EnrollmentStatus    string   `json:"enrollment_status,omitempty"`
	StartDate           string   `json:"start_date"`
	EstimatedCompletion string   `json:"estimated_completion"`
	PrimaryEndpoints    []string `json:"primary_endpoints"`
	SecondaryEndpoints  []string `json:"secondary_endpoints,omitempty"`
	InclusionCriteria   string   `json:"inclusion_criteria,omitempty"`
	ResultsPosted       bool     `json:"results_posted"`
	TerminationReason   string   `json:"termination_reason,omitempty"`
	Classification      string   `json:"_trial_classification,omitempty"`
	CompetitiveThreat   string   `json:"_competitive_threat,omitempty"`
}

type PipelineSummary struct {
	Phase1Count            int `json:"phase_1_count"`
	Phase2Count            int `json:"phase_2_count"`
	Phase3Count            int `json:"phase_3_count"`
	Phase4Count            int `json:"phase_4_count"`
	TotalTrials            int `json:"total_trials"`
	TotalPatientsEnrolled  int `json:"total_patients_enrolled"`
	TotalEstimatedPatients int `json:"total_estimated_patients"`
}

// Counts returns the per-phase trial counts, phase 1 first.
func (p PipelineSummary) Counts() []int {
	return []int{p.Phase1Count, p.Phase2Count, p.Phase3Count, p.Phase4Count}
}

type SponsorAnalysis struct {
	IndustrySponsored   int    `json:"industry_sponsored"`
	AcademicSponsored   int    `json:"academic_sponsored"`
	GovernmentSponsored int    `json:"government_sponsored"`
	TopSponsor          string `json:"top_sponsor"`
}

type TimelineAnalysis struct {
	AvgPhaseDuration      string   `json:"avg_phase_duration"`
	EstimatedApprovalDate string   `json:"estimated_approval_date"`
	KeyMilestones         []string `json:"key_milestones"`
}

// InternalDocsPayload mirrors the internal knowledge base response.
type InternalDocsPayload struct {
	Query                   string             `json:"query"`
	TotalDocumentsSearched  int                `json:"total_documents_searched"`
	DocumentsFound          int                `json:"documents_found"`
	RelevantDocuments       []InternalDocument `json:"relevant_documents"`
	KeyInsights             []Insight          `json:"key_insights"`
	FieldFeedback           []string           `json:"field_feedback"`
	StrategicAlignment      map[string]string  `json:"strategic_alignment"`
	ConflictingPerspectives []ConflictingView  `json:"conflicting_perspectives"`
	Metadata                map[string]any     `json:"_metadata,omitempty"`
}

type InternalDocument struct {
	Filename       string   `json:"filename"`
	Page           int      `json:"page"`
	RelevanceScore float64  `json:"relevance_score"`
	DocumentType   string   `json:"document_type"`
	Date           string   `json:"date"`
	Excerpt        string   `json:"excerpt"`
	Sentiment      string   `json:"sentiment"`
	KeyTopics      []string `json:"key_topics"`
}

type Insight struct {
	Insight            string `json:"insight"`
	Source             string `json:"source"`
	Date               string `json:"date"`
	Confidence         string `json:"confidence"`
	StrategicRelevance string `json:"strategic_relevance"`
}

type ConflictingView struct {
	PerspectiveA string `json:"perspective_a"`
	PerspectiveB string `json:"perspective_b"`
	DocumentA    string `json:"document_a"`
	DocumentB    string `json:"document_b"`
	Resolution   string `json:"resolution"`
}

// WebPayload mirrors the curated web search response.
type WebPayload struct {
	Query                   string         `json:"query"`
	TotalResults            int            `json:"total_results"`
	ResultsShown            int            `json:"results_shown"`
	Results                 []WebResult    `json:"results"`
	Guidelines              map[string]any `json:"guidelines"`
	RecentNews              []NewsItem     `json:"recent_news"`
	EmergingTrends          []string       `json:"emerging_trends"`
	CompetitiveIntelligence map[string]any `json:"competitive_intelligence"`
	Metadata                map[string]any `json:"_metadata,omitempty"`
}

type WebResult struct {
	Rank             int    `json:"rank"`
	Title            string `json:"title"`
	Source           string `json:"source"`
	URL              string `json:"url"`
	PublicationDate  string `json:"publication_date"`
	Summary          string `json:"summary"`
	CredibilityScore int    `json:"_credibility_score"`
	SourceType       string `json:"_source_type"`
	ContentType      string `json:"content_type"`
	Snippet          string `json:"snippet"`
	AccessStatus     string `json:"access_status"`
	OpenAccessLink   string `json:"open_access_link,omitempty"`
}

type NewsItem struct {
	Headline string `json:"headline"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Impact   string `json:"impact"`
	URL      string `json:"url"`
}
