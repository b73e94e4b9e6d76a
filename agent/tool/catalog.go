package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

const (
	ToolMarketData       = "iqvia.market_data"
	ToolPatentSearch     = "uspto.patent_search"
	ToolTrialsSearch     = "clinical_trials.search"
	ToolTradeData        = "exim.trade_data"
	ToolUnitsStandardize = "units.standardize"
	ToolDetectOutliers   = "stats.detect_outliers"
	ToolInternalDocs     = "internal_docs.search"
	ToolWebSearch        = "web.search"
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

type GatewayOption func(*Gateway)

func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// Gateway exposes the data providers as per-domain tools.
type Gateway struct {
	source contractx.DataSource
	now    func() time.Time
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func NewGateway(source contractx.DataSource, opts ...GatewayOption) (*Gateway, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: data source is required", contractx.ErrValidation)
	}
	g := &Gateway{source: source, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// BuildForDomain returns the tool schemas offered to the domain's agent and the executor serving them.
func (g *Gateway) BuildForDomain(domain contractx.Domain) ([]*schema.ToolInfo, Executor, error) {
	infos, ok := infosForDomain(domain)
	if !ok {
		return nil, nil, &contractx.UnknownDomainError{Key: string(domain)}
	}
	return infos, g.NewExecutor(domain), nil
}

func (g *Gateway) NewExecutor(domain contractx.Domain) Executor {
	allowed := map[string]struct{}{}
	if infos, ok := infosForDomain(domain); ok {
		for _, info := range infos {
			allowed[info.Name] = struct{}{}
		}
	}
	fallback := DefaultExecutor(domain)

	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		if err := ctx.Err(); err != nil {
			return contractx.ToolResult{}, err
		}
		if _, ok := allowed[tool]; !ok {
			return fallback(ctx, tool, args)
		}

		switch tool {
		case ToolGrowthCAGR:
			return executeCAGRTool(tool, args)
		case ToolGrowthProject:
			return executeProjectTool(tool, args)
		case ToolUnitsStandardize:
			return executeStandardizeTool(tool, args)
		case ToolDetectOutliers:
			return executeOutliersTool(tool, args)
		case ToolMarketData, ToolPatentSearch, ToolTrialsSearch, ToolTradeData, ToolInternalDocs, ToolWebSearch:
			return g.executeProviderTool(ctx, tool, args)
		default:
			return fallback(ctx, tool, args)
		}
	}
}

// Execute runs the requests in order. Tool failures are reported per result.
func (g *Gateway) Execute(ctx context.Context, domain contractx.Domain, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	if _, ok := infosForDomain(domain); !ok {
		return nil, &contractx.UnknownDomainError{Key: string(domain)}
	}

	exec := g.NewExecutor(domain)
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		name := strings.TrimSpace(req.Tool)
		out, err := exec(ctx, name, req.Args)
		if err != nil {
			return nil, err
		}
		if out.Error != "" {
			log.Ctx(ctx).Warn().
				Str("domain", string(domain)).
				Str("tool", name).
				Str("error", out.Error).
				Msg("tool reported an error")
		}
		results = append(results, out)
	}
	return results, nil
}

func DefaultExecutor(domain contractx.Domain) Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", tool, domain),
		}, nil
	}
}

func infosForDomain(domain contractx.Domain) ([]*schema.ToolInfo, bool) {
	switch domain {
	case contractx.DomainMarket:
		return []*schema.ToolInfo{
			moleculeTool(ToolMarketData, "Retrieve IQVIA market intelligence: TAM, CAGR, top manufacturers, formulation and regional breakdown, sales history."),
			cagrTool(),
			projectTool(),
		}, true
	case contractx.DomainPatent:
		return []*schema.ToolInfo{
			moleculeTool(ToolPatentSearch, "Search USPTO patent families with expiry dates, FTO status, litigation and risk flags."),
		}, true
	case contractx.DomainTrials:
		return []*schema.ToolInfo{
			moleculeTool(ToolTrialsSearch, "Search clinical trials grouped by indication with phase, status, sponsor and primary endpoints."),
		}, true
	case contractx.DomainTrade:
		return []*schema.ToolInfo{
			moleculeTool(ToolTradeData, "Retrieve EXIM import/export volumes, values, unit prices, partners and quarterly trends."),
			{
				Name: ToolUnitsStandardize,
				Desc: "Convert a quantity between g, kg and mt (metric tonnes).",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"value": {Type: schema.Number, Desc: "Quantity to convert", Required: true},
					"from":  {Type: schema.String, Desc: "Source unit", Enum: []string{"g", "kg", "mt"}, Required: true},
					"to":    {Type: schema.String, Desc: "Target unit", Enum: []string{"g", "kg", "mt"}, Required: true},
				}),
			},
			{
				Name: ToolDetectOutliers,
				Desc: "Return indexes of values further than threshold standard deviations from the mean.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"values":    {Type: schema.Array, Desc: "Series to inspect", ElemInfo: &schema.ParameterInfo{Type: schema.Number}, Required: true},
					"threshold": {Type: schema.Number, Desc: "Standard deviations, default 2"},
				}),
			},
			cagrTool(),
		}, true
	case contractx.DomainInternal:
		return []*schema.ToolInfo{
			queryTool(ToolInternalDocs, "Search proprietary strategy documents and field insights; returns findings with file and page citations."),
		}, true
	case contractx.DomainWeb:
		return []*schema.ToolInfo{
			queryTool(ToolWebSearch, "Search high-credibility external sources for guidelines, regulatory news and publications."),
		}, true
	default:
		return nil, false
	}
}

func moleculeTool(name, desc string) *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: name,
		Desc: desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"molecule": {Type: schema.String, Desc: "Molecule (INN) name", Required: true},
		}),
	}
}

func queryTool(name, desc string) *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: name,
		Desc: desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "Natural language query", Required: true},
		}),
	}
}

func cagrTool() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolGrowthCAGR,
		Desc: "Compound annual growth rate in percent between two values, e.g. market size or export volume.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"start": {Type: schema.Number, Desc: "Value in the first year", Required: true},
			"end":   {Type: schema.Number, Desc: "Value in the last year", Required: true},
			"years": {Type: schema.Number, Desc: "Years between start and end", Required: true},
		}),
	}
}

func projectTool() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolGrowthProject,
		Desc: "Project a market size forward at a CAGR; returns one value per year.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"value":        {Type: schema.Number, Desc: "Current value, e.g. USD million", Required: true},
			"cagr_percent": {Type: schema.Number, Desc: "Annual growth in percent", Required: true},
			"years":        {Type: schema.Integer, Desc: "Years to project, 1 to 15", Required: true},
		}),
	}
}
