package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	promptx "github.com/tanpawarit/pharmapilot/agent/prompt"
	taskx "github.com/tanpawarit/pharmapilot/agent/task"
)

type synthesizerImpl struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func newSynthesizer(ctx context.Context, persona contractx.Persona, chatModel einomodel.BaseChatModel) (*synthesizerImpl, error) {
	runner, err := compileMessageGraph(ctx, chatModel, promptx.SystemPrompt(persona, ""), "synthesis.report")
	if err != nil {
		return nil, fmt.Errorf("%w: compile synthesis graph: %v", contractx.ErrModelInvoke, err)
	}
	return &synthesizerImpl{runner: runner}, nil
}

// Synthesize returns the model's raw text. An empty answer is left to the caller.
func (s *synthesizerImpl) Synthesize(ctx context.Context, req contractx.SynthesisRequest) (string, error) {
	if strings.TrimSpace(req.Task.Description) == "" {
		return "", fmt.Errorf("%w: synthesis task description is required", contractx.ErrValidation)
	}

	msg, err := s.runner.Invoke(ctx, map[string]any{
		"input": SynthesisInput(req),
	})
	if err != nil {
		return "", fmt.Errorf("%w: synthesis invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}

// SynthesisInput lays out the task followed by one section per worker output.
func SynthesisInput(req contractx.SynthesisRequest) string {
	var b strings.Builder
	b.WriteString(req.Task.Description)
	if q := strings.TrimSpace(req.Query); q != "" && !strings.Contains(req.Task.Description, q) {
		fmt.Fprintf(&b, "\n\nResearch question: %s", q)
	}
	if req.Molecule != "" && !strings.Contains(req.Task.Description, req.Molecule) {
		fmt.Fprintf(&b, "\nMolecule: %s", req.Molecule)
	}
	if req.Task.ExpectedOutput != "" {
		fmt.Fprintf(&b, "\n\nExpected output: %s", req.Task.ExpectedOutput)
	}
	b.WriteString("\n\n# Agent outputs")
	for _, section := range req.Sections {
		content := strings.TrimSpace(section.Content)
		if section.Failed || content == "" {
			content = taskx.NoDataAvailable
		}
		fmt.Fprintf(&b, "\n\n## %s\n\n%s", section.AgentName, content)
	}
	return b.String()
}
