package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	promptx "github.com/tanpawarit/pharmapilot/agent/prompt"
	toolx "github.com/tanpawarit/pharmapilot/agent/tool"
)

type workerImpl struct {
	domain        contractx.Domain
	agentName     string
	toolRunner    compose.Runnable[map[string]any, *schema.Message]
	answerRunner  compose.Runnable[map[string]any, *schema.Message]
	runtimeRunner compose.Runnable[contractx.WorkerRequest, contractx.WorkerOutput]
	executor      toolx.Executor
}

func newWorker(
	ctx context.Context,
	descriptor contractx.AgentDescriptor,
	chatModel einomodel.ToolCallingChatModel,
	gateway *toolx.Gateway,
	instructions string,
) (*workerImpl, error) {
	tools, executor, err := gateway.BuildForDomain(descriptor.Key)
	if err != nil {
		return nil, err
	}

	systemPrompt := promptx.SystemPrompt(descriptor.Persona, instructions)

	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, descriptor.Key, err)
	}
	toolRunner, err := compileMessageGraph(ctx, toolModel, systemPrompt, "worker."+string(descriptor.Key)+".tool_planning")
	if err != nil {
		return nil, fmt.Errorf("%w: compile tool planning graph: %v", contractx.ErrModelInvoke, err)
	}
	answerRunner, err := compileMessageGraph(ctx, chatModel, systemPrompt, "worker."+string(descriptor.Key)+".answer")
	if err != nil {
		return nil, fmt.Errorf("%w: compile answer graph: %v", contractx.ErrModelInvoke, err)
	}

	w := &workerImpl{
		domain:       descriptor.Key,
		agentName:    descriptor.DisplayName,
		toolRunner:   toolRunner,
		answerRunner: answerRunner,
		executor:     executor,
	}

	runtimeRunner, err := compileWorkerRuntimeGraph(ctx, "worker."+string(descriptor.Key)+".runtime", workerFlows{
		plan:    w.planTools,
		execute: w.executeTools,
		compose: w.composeAnswer,
		direct:  w.directAnswer,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: compile worker runtime graph: %v", contractx.ErrModelInvoke, err)
	}
	w.runtimeRunner = runtimeRunner

	return w, nil
}

func (w *workerImpl) Run(ctx context.Context, req contractx.WorkerRequest) (contractx.WorkerOutput, error) {
	out, err := w.runtimeRunner.Invoke(ctx, req)
	if err != nil {
		return contractx.WorkerOutput{}, err
	}
	return out, nil
}

func (w *workerImpl) taskPayload(req contractx.WorkerRequest) map[string]any {
	return map[string]any{
		"task":            req.Task.Description,
		"expected_output": req.Task.ExpectedOutput,
		"user_query":      req.Query,
		"molecule":        req.Molecule,
	}
}

func (w *workerImpl) planTools(ctx context.Context, in *workerGraphState) (*workerGraphState, error) {
	input, err := json.Marshal(w.taskPayload(in.Req))
	if err != nil {
		return nil, fmt.Errorf("%w: marshal tool planning payload: %v", contractx.ErrValidation, err)
	}

	msg, err := w.toolRunner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tool planning invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty tool planning response", contractx.ErrSchemaViolation)
	}

	reqs, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return nil, err
	}
	in.Planned = msg
	in.ToolRequests = reqs
	return in, nil
}

func (w *workerImpl) executeTools(ctx context.Context, in *workerGraphState) (*workerGraphState, error) {
	results := make([]contractx.ToolResult, 0, len(in.ToolRequests))
	for _, tr := range in.ToolRequests {
		out, err := w.executor(ctx, tr.Tool, tr.Args)
		if err != nil {
			return nil, fmt.Errorf("%w: execute tool=%s: %v", contractx.ErrOrchestration, tr.Tool, err)
		}
		if out.Error != "" {
			log.Ctx(ctx).Warn().
				Str("agent", string(w.domain)).
				Str("tool", tr.Tool).
				Str("error", out.Error).
				Msg("tool returned an error")
		}
		results = append(results, out)
	}
	in.ToolResults = results
	return in, nil
}

func (w *workerImpl) composeAnswer(ctx context.Context, in *workerGraphState) (contractx.WorkerOutput, error) {
	payload := w.taskPayload(in.Req)
	payload["tool_results"] = in.ToolResults
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.WorkerOutput{}, fmt.Errorf("%w: marshal answer payload: %v", contractx.ErrValidation, err)
	}

	msg, err := w.answerRunner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.WorkerOutput{}, fmt.Errorf("%w: answer invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return contractx.WorkerOutput{}, fmt.Errorf("%w: agent=%s returned an empty answer", contractx.ErrSchemaViolation, w.domain)
	}
	return w.output(in, msg.Content), nil
}

func (w *workerImpl) directAnswer(ctx context.Context, in *workerGraphState) (contractx.WorkerOutput, error) {
	content := ""
	if in.Planned != nil {
		content = in.Planned.Content
	}
	if strings.TrimSpace(content) == "" {
		return contractx.WorkerOutput{}, fmt.Errorf("%w: agent=%s returned neither tool calls nor content", contractx.ErrSchemaViolation, w.domain)
	}
	return w.output(in, content), nil
}

func (w *workerImpl) output(in *workerGraphState, content string) contractx.WorkerOutput {
	return contractx.WorkerOutput{
		TaskID:      in.Req.Task.ID,
		Domain:      w.domain,
		AgentName:   w.agentName,
		Content:     strings.TrimSpace(content),
		ToolResults: in.ToolResults,
	}
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{
			Tool: tool,
			Args: args,
		})
	}
	return reqs, nil
}
