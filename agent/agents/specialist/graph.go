package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

const (
	nodeValidateTask  = "validate_task"
	nodePlanTools     = "plan_tools"
	nodeExecuteTools  = "execute_tools"
	nodeComposeAnswer = "compose_answer"
	nodeDirectAnswer  = "direct_answer"
)

// compileMessageGraph wires prompt -> model and returns the raw assistant message.
func compileMessageGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add %s prompt node: %w", graphName, err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add %s model node: %w", graphName, err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add %s edge start->prompt: %w", graphName, err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add %s edge prompt->model: %w", graphName, err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add %s edge model->end: %w", graphName, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", graphName, err)
	}
	return runner, nil
}

type workerGraphState struct {
	Req          contractx.WorkerRequest
	Planned      *schema.Message
	ToolRequests []contractx.ToolRequest
	ToolResults  []contractx.ToolResult
}

type workerFlows struct {
	plan    func(context.Context, *workerGraphState) (*workerGraphState, error)
	execute func(context.Context, *workerGraphState) (*workerGraphState, error)
	compose func(context.Context, *workerGraphState) (contractx.WorkerOutput, error)
	direct  func(context.Context, *workerGraphState) (contractx.WorkerOutput, error)
}

func compileWorkerRuntimeGraph(
	ctx context.Context,
	graphName string,
	flows workerFlows,
) (compose.Runnable[contractx.WorkerRequest, contractx.WorkerOutput], error) {
	graph := compose.NewGraph[contractx.WorkerRequest, contractx.WorkerOutput]()

	if err := graph.AddLambdaNode(nodeValidateTask,
		compose.InvokableLambda(func(ctx context.Context, req contractx.WorkerRequest) (*workerGraphState, error) {
			if strings.TrimSpace(req.Task.ID) == "" {
				return nil, fmt.Errorf("%w: task id is required", contractx.ErrValidation)
			}
			if strings.TrimSpace(req.Task.Description) == "" {
				return nil, fmt.Errorf("%w: task description is required", contractx.ErrValidation)
			}
			return &workerGraphState{Req: req}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add worker validate node: %w", err)
	}

	stateNodes := []struct {
		name string
		fn   func(context.Context, *workerGraphState) (*workerGraphState, error)
	}{
		{nodePlanTools, flows.plan},
		{nodeExecuteTools, flows.execute},
	}
	for _, n := range stateNodes {
		fn := n.fn
		if err := graph.AddLambdaNode(n.name,
			compose.InvokableLambda(func(ctx context.Context, in *workerGraphState) (*workerGraphState, error) {
				if in == nil {
					return nil, fmt.Errorf("%w: worker graph state is nil", contractx.ErrValidation)
				}
				return fn(ctx, in)
			}),
		); err != nil {
			return nil, fmt.Errorf("add worker %s node: %w", n.name, err)
		}
	}

	answerNodes := []struct {
		name string
		fn   func(context.Context, *workerGraphState) (contractx.WorkerOutput, error)
	}{
		{nodeComposeAnswer, flows.compose},
		{nodeDirectAnswer, flows.direct},
	}
	for _, n := range answerNodes {
		fn := n.fn
		if err := graph.AddLambdaNode(n.name,
			compose.InvokableLambda(func(ctx context.Context, in *workerGraphState) (contractx.WorkerOutput, error) {
				if in == nil {
					return contractx.WorkerOutput{}, fmt.Errorf("%w: worker graph state is nil", contractx.ErrValidation)
				}
				return fn(ctx, in)
			}),
		); err != nil {
			return nil, fmt.Errorf("add worker %s node: %w", n.name, err)
		}
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *workerGraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: worker graph state is nil", contractx.ErrValidation)
			}
			if len(in.ToolRequests) > 0 {
				return nodeExecuteTools, nil
			}
			return nodeDirectAnswer, nil
		},
		map[string]bool{
			nodeExecuteTools: true,
			nodeDirectAnswer: true,
		},
	)
	if err := graph.AddBranch(nodePlanTools, branch); err != nil {
		return nil, fmt.Errorf("add worker branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, nodeValidateTask},
		{nodeValidateTask, nodePlanTools},
		{nodeExecuteTools, nodeComposeAnswer},
		{nodeComposeAnswer, compose.END},
		{nodeDirectAnswer, compose.END},
	}
	for _, e := range edges {
		if err := graph.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("add worker edge %s->%s: %w", e[0], e[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile worker runtime graph: %w", err)
	}
	return runner, nil
}
