package orchestratornode

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	taskx "github.com/tanpawarit/pharmapilot/agent/task"
	metricsx "github.com/tanpawarit/pharmapilot/pkg/metrics"
)

type DAGInput struct {
	Query    string
	Molecule string
}

type DAGOutput struct {
	Answer   string
	Sections []contractx.WorkerOutput
}

const requestKey = "request"

// CompileTaskDAG builds START -> workers -> synthesis. Synthesis waits for every task it depends on
// and reads the request itself through a passthrough node.
func CompileTaskDAG(
	ctx context.Context,
	graph taskx.Graph,
	workers map[contractx.Domain]contractx.Worker,
	synth contractx.Synthesizer,
) (compose.Runnable[DAGInput, DAGOutput], error) {
	dag := compose.NewGraph[DAGInput, DAGOutput]()

	for _, t := range graph.Workers {
		w, ok := workers[t.Domain]
		if !ok {
			return nil, fmt.Errorf("no agent for task %s", t.ID)
		}
		if err := dag.AddLambdaNode(t.ID,
			compose.InvokableLambda(workerNode(t, w)),
			compose.WithOutputKey(t.ID),
		); err != nil {
			return nil, fmt.Errorf("add node %s: %w", t.ID, err)
		}
		if err := dag.AddEdge(compose.START, t.ID); err != nil {
			return nil, fmt.Errorf("add edge start->%s: %w", t.ID, err)
		}
	}

	if err := dag.AddLambdaNode(requestKey,
		compose.InvokableLambda(func(_ context.Context, in DAGInput) (DAGInput, error) { return in, nil }),
		compose.WithOutputKey(requestKey),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", requestKey, err)
	}
	if err := dag.AddEdge(compose.START, requestKey); err != nil {
		return nil, fmt.Errorf("add edge start->%s: %w", requestKey, err)
	}

	synthesisTask := graph.Synthesis
	if err := dag.AddLambdaNode(synthesisTask.ID,
		compose.InvokableLambda(synthesisNode(synthesisTask, graph.Workers, synth)),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", synthesisTask.ID, err)
	}
	if err := dag.AddEdge(requestKey, synthesisTask.ID); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", requestKey, synthesisTask.ID, err)
	}
	for _, dep := range synthesisTask.DependsOn {
		if err := dag.AddEdge(dep, synthesisTask.ID); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", dep, synthesisTask.ID, err)
		}
	}
	if err := dag.AddEdge(synthesisTask.ID, compose.END); err != nil {
		return nil, fmt.Errorf("add edge %s->end: %w", synthesisTask.ID, err)
	}

	runner, err := dag.Compile(ctx,
		compose.WithGraphName("orchestrator.tasks"),
		compose.WithNodeTriggerMode(compose.AllPredecessor),
	)
	if err != nil {
		return nil, fmt.Errorf("compile task graph: %w", err)
	}
	return runner, nil
}

// workerNode never fails the graph; errors and panics become a failed output.
func workerNode(t contractx.Task, w contractx.Worker) func(context.Context, DAGInput) (contractx.WorkerOutput, error) {
	return func(ctx context.Context, in DAGInput) (out contractx.WorkerOutput, _ error) {
		start := time.Now()
		failed := func(err error) contractx.WorkerOutput {
			log.Ctx(ctx).Warn().
				Err(err).
				Str("task", t.ID).
				Str("agent", string(t.Domain)).
				Dur("duration", time.Since(start)).
				Msg("worker failed; synthesis continues without it")
			metricsx.AgentRuns.WithLabelValues(string(t.Domain), "failed").Inc()
			return contractx.WorkerOutput{
				TaskID:    t.ID,
				Domain:    t.Domain,
				AgentName: t.AgentName,
				Failed:    true,
				Error:     err.Error(),
			}
		}
		defer func() {
			if r := recover(); r != nil {
				out = failed(fmt.Errorf("%w: worker panicked: %v", contractx.ErrOrchestration, r))
			}
		}()

		res, err := w.Run(ctx, contractx.WorkerRequest{Task: t, Query: in.Query, Molecule: in.Molecule})
		if err != nil {
			return failed(err), nil
		}
		res.TaskID = t.ID
		res.Domain = t.Domain
		res.AgentName = t.AgentName

		log.Ctx(ctx).Debug().
			Str("task", t.ID).
			Int("tools", len(res.ToolResults)).
			Dur("duration", time.Since(start)).
			Msg("worker finished")
		metricsx.AgentRuns.WithLabelValues(string(t.Domain), "ok").Inc()
		return res, nil
	}
}

func synthesisNode(
	t contractx.Task,
	workerTasks []contractx.Task,
	synth contractx.Synthesizer,
) func(context.Context, map[string]any) (DAGOutput, error) {
	names := make(map[string]contractx.Task, len(workerTasks))
	for _, wt := range workerTasks {
		names[wt.ID] = wt
	}

	return func(ctx context.Context, in map[string]any) (DAGOutput, error) {
		sections := make([]contractx.WorkerOutput, 0, len(t.DependsOn))
		for _, id := range t.DependsOn {
			out, ok := in[id].(contractx.WorkerOutput)
			if !ok {
				wt := names[id]
				out = contractx.WorkerOutput{TaskID: id, Domain: wt.Domain, AgentName: wt.AgentName, Failed: true, Error: "no output"}
			}
			sections = append(sections, out)
		}

		req, _ := in[requestKey].(DAGInput)
		answer, err := synth.Synthesize(ctx, contractx.SynthesisRequest{
			Task:     t,
			Query:    req.Query,
			Molecule: req.Molecule,
			Sections: sections,
		})
		if err != nil {
			return DAGOutput{}, fmt.Errorf("%w: synthesis: %w", contractx.ErrOrchestration, err)
		}
		return DAGOutput{Answer: answer, Sections: sections}, nil
	}
}
