package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	orchestratorx "github.com/tanpawarit/pharmapilot/agent/agents/orchestrator"
	specialistx "github.com/tanpawarit/pharmapilot/agent/agents/specialist"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	llmx "github.com/tanpawarit/pharmapilot/agent/llm"
	routerx "github.com/tanpawarit/pharmapilot/agent/router"
	toolx "github.com/tanpawarit/pharmapilot/agent/tool"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
	configx "github.com/tanpawarit/pharmapilot/pkg/config"
	openrouterx "github.com/tanpawarit/pharmapilot/pkg/openrouter"
	chartx "github.com/tanpawarit/pharmapilot/report/chart"
	pdfx "github.com/tanpawarit/pharmapilot/report/pdf"
)

// app holds the research stack shared by every command.
type app struct {
	router       *routerx.Router
	agents       contractx.Registry
	orchestrator *orchestratorx.Orchestrator
	pdf          *pdfx.Renderer
}

func newRouter(cfg llmx.Config) (*routerx.Router, error) {
	routerCfg := cfg.OpenRouterFor(contractx.AgentRoleRouter)
	client := openrouterx.NewClient(routerCfg)
	if client == nil {
		log.Warn().Msg("llm api key missing; router fallback fails open")
		return routerx.New(nil), nil
	}
	completer, err := openrouterx.NewCompleter(client, routerCfg.Model)
	if err != nil {
		return nil, fmt.Errorf("router completer: %w", err)
	}
	return routerx.New(completer), nil
}

func newApp(ctx context.Context) (*app, error) {
	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, fmt.Errorf("load llm config: %w", err)
	}

	router, err := newRouter(*llmCfg)
	if err != nil {
		return nil, err
	}

	source := providerx.New()
	gateway, err := toolx.NewGateway(source)
	if err != nil {
		return nil, err
	}
	agents, err := specialistx.NewRegistry(ctx, *llmCfg, gateway)
	if err != nil {
		return nil, fmt.Errorf("build agents: %w", err)
	}

	charts := chartx.New()
	pdf := pdfx.New(charts)
	orch, err := orchestratorx.New(router, agents, source,
		orchestratorx.WithCharts(charts),
		orchestratorx.WithPDF(pdf),
	)
	if err != nil {
		return nil, fmt.Errorf("build orchestrator: %w", err)
	}

	return &app{router: router, agents: agents, orchestrator: orch, pdf: pdf}, nil
}
