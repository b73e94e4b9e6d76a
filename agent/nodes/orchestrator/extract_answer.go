package orchestratornode

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

// ExtractAnswer keeps the synthesis text, falling back to the JSON of the worker sections.
func ExtractAnswer(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if strings.TrimSpace(in.Answer) != "" {
		return in, nil
	}

	produced := make([]contractx.WorkerOutput, 0, len(in.Sections))
	for _, s := range in.Sections {
		if !s.Failed && strings.TrimSpace(s.Content) != "" {
			produced = append(produced, s)
		}
	}
	if len(produced) == 0 {
		return nil, fmt.Errorf("%w: research run produced no answer", contractx.ErrOrchestration)
	}

	raw, err := json.MarshalIndent(produced, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: render run result: %v", contractx.ErrOrchestration, err)
	}
	in.Answer = string(raw)
	return in, nil
}
