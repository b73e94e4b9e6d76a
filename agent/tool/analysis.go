package tool

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
)

type StandardizeOutput struct {
	Value float64 `json:"value"`
	From  string  `json:"from"`
	To    string  `json:"to"`
}

type OutliersOutput struct {
	Indexes   []int     `json:"indexes"`
	Values    []float64 `json:"values"`
	Threshold float64   `json:"threshold"`
}

func executeStandardizeTool(tool string, args map[string]any) (contractx.ToolResult, error) {
	value, ok := args["value"].(float64)
	if !ok {
		return contractx.ToolResult{Tool: tool, Error: "value must be a number"}, nil
	}
	from, msg := stringArg(args, "from")
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}
	to, msg := stringArg(args, "to")
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}

	from, to = strings.ToLower(from), strings.ToLower(to)
	converted, ok := providerx.StandardizeUnits(value, from, to)
	if !ok {
		return contractx.ToolResult{Tool: tool, Error: fmt.Sprintf("cannot convert %s to %s", from, to)}, nil
	}
	return contractx.ToolResult{
		Tool:   tool,
		Result: StandardizeOutput{Value: converted, From: from, To: to},
	}, nil
}

func executeOutliersTool(tool string, args map[string]any) (contractx.ToolResult, error) {
	raw, ok := args["values"].([]any)
	if !ok {
		return contractx.ToolResult{Tool: tool, Error: "values must be an array of numbers"}, nil
	}
	values := make([]float64, 0, len(raw))
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return contractx.ToolResult{Tool: tool, Error: fmt.Sprintf("values[%d] is not a number", i)}, nil
		}
		values = append(values, f)
	}

	threshold := providerx.DefaultOutlierThreshold
	if t, ok := args["threshold"].(float64); ok && t > 0 {
		threshold = t
	}

	idx := providerx.DetectOutliers(values, threshold)
	picked := make([]float64, 0, len(idx))
	for _, i := range idx {
		picked = append(picked, values[i])
	}
	if idx == nil {
		idx = []int{}
	}
	return contractx.ToolResult{
		Tool:   tool,
		Result: OutliersOutput{Indexes: idx, Values: picked, Threshold: threshold},
	}, nil
}
