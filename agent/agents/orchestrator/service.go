package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	nodex "github.com/tanpawarit/pharmapilot/agent/nodes/orchestrator"
	metricsx "github.com/tanpawarit/pharmapilot/pkg/metrics"
)

type Router = nodex.Router

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCharts and WithPDF are optional; a nil renderer disables that output.
func WithCharts(g contractx.ChartGenerator) Option {
	return func(o *Orchestrator) { o.charts = g }
}

func WithPDF(r contractx.PDFRenderer) Option {
	return func(o *Orchestrator) { o.pdf = r }
}

type Orchestrator struct {
	router Router
	models contractx.Registry
	source contractx.DataSource
	charts contractx.ChartGenerator
	pdf    contractx.PDFRenderer

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(
	router Router,
	models contractx.Registry,
	source contractx.DataSource,
	opts ...Option,
) (*Orchestrator, error) {
	if router == nil {
		return nil, errors.New("router is required")
	}
	if models == nil {
		return nil, errors.New("agent registry is required")
	}
	if source == nil {
		return nil, errors.New("data source is required")
	}

	o := &Orchestrator{
		router: router,
		models: models,
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	graphRunner, err := o.compileResearchGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Research runs one query through routing, the agent task graph and report rendering.
func (o *Orchestrator) Research(ctx context.Context, req contractx.ResearchRequest) (contractx.ResearchResult, error) {
	start := time.Now()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		Query:    req.Query,
		Molecule: req.Molecule,
	})
	if err != nil {
		metricsx.ResearchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		log.Ctx(ctx).Error().Err(err).Dur("duration", time.Since(start)).Msg("research failed")
		return contractx.ResearchResult{}, err
	}

	metricsx.ResearchDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	log.Ctx(ctx).Info().
		Strs("agents", out.AgentsUsed).
		Str("molecule", out.Molecule).
		Int("charts", len(out.Charts)).
		Dur("duration", time.Since(start)).
		Msg("research completed")
	return out, nil
}
