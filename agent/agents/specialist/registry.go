package specialist

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	llmx "github.com/tanpawarit/pharmapilot/agent/llm"
	promptx "github.com/tanpawarit/pharmapilot/agent/prompt"
	registryx "github.com/tanpawarit/pharmapilot/agent/registry"
	toolx "github.com/tanpawarit/pharmapilot/agent/tool"
)

type registryImpl struct {
	workers     map[contractx.Domain]contractx.Worker
	synthesizer contractx.Synthesizer
}

func (r *registryImpl) Worker(domain contractx.Domain) (contractx.Worker, error) {
	w, ok := r.workers[domain]
	if !ok {
		return nil, &contractx.UnknownDomainError{Key: string(domain)}
	}
	return w, nil
}

func (r *registryImpl) Synthesizer() contractx.Synthesizer {
	return r.synthesizer
}

func NewRegistry(ctx context.Context, cfg llmx.Config, gateway *toolx.Gateway) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workerModelCfg := cfg.OpenRouterFor(contractx.AgentRoleWorker)
	workerModel, err := workerModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create worker model: %v", contractx.ErrModelInvoke, err)
	}
	synthesisModelCfg := cfg.OpenRouterFor(contractx.AgentRoleSynthesis)
	synthesisModel, err := synthesisModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create synthesis model: %v", contractx.ErrModelInvoke, err)
	}

	return NewRegistryWithModels(ctx, workerModel, synthesisModel, gateway)
}

// NewRegistryWithModels builds one worker per registered domain on workerModel and the report agent on synthesisModel.
func NewRegistryWithModels(
	ctx context.Context,
	workerModel einomodel.ToolCallingChatModel,
	synthesisModel einomodel.BaseChatModel,
	gateway *toolx.Gateway,
) (contractx.Registry, error) {
	if workerModel == nil || synthesisModel == nil {
		return nil, fmt.Errorf("%w: chat models are required", contractx.ErrValidation)
	}
	if gateway == nil {
		return nil, fmt.Errorf("%w: tool gateway is required", contractx.ErrValidation)
	}

	prompts, err := promptx.LoadPromptSet()
	if err != nil {
		return nil, err
	}

	workers := make(map[contractx.Domain]contractx.Worker)
	for _, d := range registryx.All() {
		w, err := newWorker(ctx, d, workerModel, gateway, prompts.Worker)
		if err != nil {
			return nil, err
		}
		workers[d.Key] = w
	}

	persona, _ := registryx.SynthesisPrompt()
	synthesizer, err := newSynthesizer(ctx, persona, synthesisModel)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		workers:     workers,
		synthesizer: synthesizer,
	}, nil
}
