package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
	"golang.org/x/sync/errgroup"
)

// CollectResearchData attaches structured provider payloads for market, patent, trials and trade.
// Each provider is isolated: a failure only drops its payload.
func CollectResearchData(ctx context.Context, in *GraphState, source contractx.DataSource) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	data := contractx.ResearchData{
		Summary:    in.Answer,
		AgentsUsed: in.AgentNames,
		Timestamp:  in.Now,
	}

	var (
		market *providerx.MarketPayload
		patent *providerx.PatentPayload
		trials *providerx.TrialsPayload
		trade  *providerx.TradePayload
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range in.Domains {
		switch d {
		case contractx.DomainMarket:
			g.Go(func() error {
				market = fetch(gctx, d, func(ctx context.Context) (*providerx.MarketPayload, error) { return source.Market(ctx, in.Molecule) })
				return nil
			})
		case contractx.DomainPatent:
			g.Go(func() error {
				patent = fetch(gctx, d, func(ctx context.Context) (*providerx.PatentPayload, error) { return source.Patents(ctx, in.Molecule) })
				return nil
			})
		case contractx.DomainTrials:
			g.Go(func() error {
				trials = fetch(gctx, d, func(ctx context.Context) (*providerx.TrialsPayload, error) { return source.Trials(ctx, in.Molecule) })
				return nil
			})
		case contractx.DomainTrade:
			g.Go(func() error {
				trade = fetch(gctx, d, func(ctx context.Context) (*providerx.TradePayload, error) { return source.Trade(ctx, in.Molecule) })
				return nil
			})
		}
	}
	_ = g.Wait()

	data.MarketData = market
	data.PatentData = patent
	data.ClinicalTrials = trials
	data.TradeData = trade
	in.ResearchData = data
	return in, nil
}

func fetch[T any](ctx context.Context, domain contractx.Domain, call func(context.Context) (*T, error)) (out *T) {
	defer func() {
		if r := recover(); r != nil {
			log.Ctx(ctx).Error().Str("agent", string(domain)).Interface("panic", r).Msg("provider panicked; payload omitted")
			out = nil
		}
	}()

	payload, err := call(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("agent", string(domain)).Msg("provider failed; payload omitted")
		return nil
	}
	return payload
}
