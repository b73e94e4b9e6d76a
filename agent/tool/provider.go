package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

// ProviderOutput wraps a provider payload with call metadata.
type ProviderOutput struct {
	Data     any            `json:"data"`
	Metadata map[string]any `json:"_metadata"`
}

var toolSources = map[string]string{
	ToolMarketData:   "IQVIA",
	ToolPatentSearch: "USPTO",
	ToolTrialsSearch: "ClinicalTrials.gov",
	ToolTradeData:    "EXIM",
	ToolInternalDocs: "Internal Knowledge Base",
	ToolWebSearch:    "Web Intelligence",
}

func (g *Gateway) executeProviderTool(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	argName := "molecule"
	if tool == ToolInternalDocs || tool == ToolWebSearch {
		argName = "query"
	}
	value, msg := stringArg(args, argName)
	if msg != "" {
		return contractx.ToolResult{Tool: tool, Error: msg}, nil
	}

	var (
		payload any
		err     error
	)
	switch tool {
	case ToolMarketData:
		payload, err = g.source.Market(ctx, value)
	case ToolPatentSearch:
		payload, err = g.source.Patents(ctx, value)
	case ToolTrialsSearch:
		payload, err = g.source.Trials(ctx, value)
	case ToolTradeData:
		payload, err = g.source.Trade(ctx, value)
	case ToolInternalDocs:
		payload, err = g.source.InternalDocs(ctx, value)
	case ToolWebSearch:
		payload, err = g.source.Web(ctx, value)
	}
	if err != nil {
		if ctx.Err() != nil {
			return contractx.ToolResult{}, ctx.Err()
		}
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}

	return contractx.ToolResult{
		Tool: tool,
		Result: ProviderOutput{
			Data: payload,
			Metadata: map[string]any{
				"source":    toolSources[tool],
				"timestamp": g.now().UTC().Format(time.RFC3339),
				argName:     value,
			},
		},
	}, nil
}

func stringArg(args map[string]any, name string) (string, string) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Sprintf("%s is required", name)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Sprintf("%s must be a string", name)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Sprintf("%s is empty", name)
	}
	return value, ""
}
