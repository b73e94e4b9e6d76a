package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	metricsx "github.com/tanpawarit/pharmapilot/pkg/metrics"
)

// RenderOutputs builds chart specs and the PDF. Either one degrades to empty on error or panic.
func RenderOutputs(
	ctx context.Context,
	in *GraphState,
	charts contractx.ChartGenerator,
	pdf contractx.PDFRenderer,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Charts = []contractx.ChartSpec{}
	if charts != nil {
		specs, err := safely(func() ([]contractx.ChartSpec, error) {
			return charts.Generate(in.ResearchData), nil
		})
		if err != nil {
			renderFailed(ctx, "charts", err)
		} else if specs != nil {
			in.Charts = specs
		}
	}

	if pdf != nil {
		encoded, err := safely(func() (string, error) {
			return pdf.Render(ctx, in.ResearchData, in.Molecule)
		})
		if err != nil {
			renderFailed(ctx, "pdf", err)
		} else {
			in.ReportPDF = encoded
		}
	}
	return in, nil
}

func safely[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, fmt.Errorf("%w: panic: %v", contractx.ErrRender, r)
		}
	}()
	out, err = fn()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", contractx.ErrRender, err)
	}
	return out, nil
}

func renderFailed(ctx context.Context, kind string, err error) {
	metricsx.RenderFailures.WithLabelValues(kind).Inc()
	log.Ctx(ctx).Warn().Err(err).Str("kind", kind).Msg("render degraded")
}
