package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

func ExecuteTasks(ctx context.Context, in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	runner, err := CompileTaskDAG(ctx, in.Tasks, in.Workers, in.Synthesizer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrOrchestration, err)
	}

	out, err := runner.Invoke(ctx, DAGInput{Query: in.Query, Molecule: in.Molecule})
	if err != nil {
		if errors.Is(err, contractx.ErrOrchestration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: run task graph: %w", contractx.ErrOrchestration, err)
	}

	in.Answer = out.Answer
	in.Sections = out.Sections
	return in, nil
}
