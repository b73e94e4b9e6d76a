package tool

import (
	"fmt"
	"math"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
)

const (
	ToolGrowthCAGR    = "growth.cagr"
	ToolGrowthProject = "growth.project"

	maxProjectionYears = 15
)

type CAGROutput struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Years       float64 `json:"years"`
	CAGRPercent float64 `json:"cagr_percent"`
}

type ProjectionOutput struct {
	Base        float64   `json:"base"`
	CAGRPercent float64   `json:"cagr_percent"`
	Values      []float64 `json:"values"`
	Final       float64   `json:"final"`
}

func executeCAGRTool(tool string, args map[string]any) (contractx.ToolResult, error) {
	start, msg := numberArg(args, "start")
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}
	end, msg := numberArg(args, "end")
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}
	years, msg := numberArg(args, "years")
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}

	cagr, ok := providerx.CAGR(start, end, years)
	if !ok {
		return contractx.ToolResult{
			Tool:  tool,
			Error: "start and years must be positive and end must not be negative",
		}, nil
	}
	return contractx.ToolResult{
		Tool: tool,
		Result: CAGROutput{
			Start:       start,
			End:         end,
			Years:       years,
			CAGRPercent: roundTo(cagr, 2),
		},
	}, nil
}

func executeProjectTool(tool string, args map[string]any) (contractx.ToolResult, error) {
	base, msg := numberArg(args, "value")
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}
	cagr, msg := numberArg(args, "cagr_percent")
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}
	rawYears, msg := numberArg(args, "years")
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}
	years := int(rawYears)
	if float64(years) != rawYears || years < 1 || years > maxProjectionYears {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("years must be a whole number between 1 and %d", maxProjectionYears),
		}, nil
	}

	values := providerx.Project(base, cagr, years)
	return contractx.ToolResult{
		Tool: tool,
		Result: ProjectionOutput{
			Base:        base,
			CAGRPercent: cagr,
			Values:      values,
			Final:       values[len(values)-1],
		},
	}, nil
}

func numberArg(args map[string]any, name string) (float64, string) {
	raw, ok := args[name]
	if !ok {
		return 0, name + " is required"
	}
	switch v := raw.(type) {
	case float64:
		return v, ""
	case int:
		return float64(v), ""
	default:
		return 0, name + " must be a number"
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
