package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	registryx "github.com/tanpawarit/pharmapilot/agent/registry"
	routerx "github.com/tanpawarit/pharmapilot/agent/router"
)

type Router interface {
	Decide(ctx context.Context, query, molecule string) routerx.Decision
}

func RouteAgents(ctx context.Context, in *GraphState, router Router) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	decision := router.Decide(ctx, in.Query, in.Molecule)
	if len(decision.Domains) == 0 {
		return nil, fmt.Errorf("%w: router selected no agents", contractx.ErrOrchestration)
	}
	names, err := registryx.DisplayNames(decision.Domains)
	if err != nil {
		return nil, err
	}

	in.Domains = decision.Domains
	in.RoutePath = decision.Path
	in.AgentNames = names
	return in, nil
}
