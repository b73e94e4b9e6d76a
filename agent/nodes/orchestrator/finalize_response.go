package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

const StatusSuccess = "success"

func FinalizeResponse(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	content := in.Content
	if strings.TrimSpace(content) == "" {
		content = in.Answer
	}
	if strings.TrimSpace(content) == "" {
		return GraphOutput{}, fmt.Errorf("%w: empty research answer", contractx.ErrOrchestration)
	}

	charts := in.Charts
	if charts == nil {
		charts = []contractx.ChartSpec{}
	}
	return GraphOutput{
		Status:       StatusSuccess,
		Response:     content,
		Content:      content,
		AgentsUsed:   in.AgentNames,
		ResearchData: in.ResearchData,
		ReportPDF:    in.ReportPDF,
		Molecule:     in.Molecule,
		Timestamp:    in.Now,
		Charts:       charts,
	}, nil
}
