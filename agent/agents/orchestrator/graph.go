package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/pharmapilot/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileResearchGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("route_agents",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RouteAgents(ctx, in, o.router)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node route_agents: %w", err)
	}

	if err := graph.AddLambdaNode("build_tasks",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.BuildTasks(in, o.models)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_tasks: %w", err)
	}

	if err := graph.AddLambdaNode("execute_tasks",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecuteTasks(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_tasks: %w", err)
	}

	if err := graph.AddLambdaNode("extract_answer",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExtractAnswer(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node extract_answer: %w", err)
	}

	if err := graph.AddLambdaNode("collect_research_data",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CollectResearchData(ctx, in, o.source)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node collect_research_data: %w", err)
	}

	if err := graph.AddLambdaNode("inject_chart_placeholders",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.InjectChartPlaceholders(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node inject_chart_placeholders: %w", err)
	}

	if err := graph.AddLambdaNode("render_outputs",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RenderOutputs(ctx, in, o.charts, o.pdf)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node render_outputs: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_response",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeResponse(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_response: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "route_agents"},
		{"route_agents", "build_tasks"},
		{"build_tasks", "execute_tasks"},
		{"execute_tasks", "extract_answer"},
		{"extract_answer", "collect_research_data"},
		{"collect_research_data", "inject_chart_placeholders"},
		{"inject_chart_placeholders", "render_outputs"},
		{"render_outputs", "finalize_response"},
		{"finalize_response", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.research"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
