package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	taskx "github.com/tanpawarit/pharmapilot/agent/task"
)

// BuildTasks resolves one worker per selected domain, the task graph and the synthesis agent.
func BuildTasks(in *GraphState, models contractx.Registry) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	workers := make(map[contractx.Domain]contractx.Worker, len(in.Domains))
	for _, d := range in.Domains {
		w, err := models.Worker(d)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve agent %s: %w", contractx.ErrOrchestration, d, err)
		}
		workers[d] = w
	}

	graph, err := taskx.Build(in.Domains, in.Molecule, in.Query)
	if err != nil {
		return nil, err
	}

	synth := models.Synthesizer()
	if synth == nil {
		return nil, fmt.Errorf("%w: synthesis agent is unavailable", contractx.ErrOrchestration)
	}

	in.Workers = workers
	in.Tasks = graph
	in.Synthesizer = synth
	return in, nil
}
