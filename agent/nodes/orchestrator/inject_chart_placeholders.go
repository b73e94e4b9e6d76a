package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	chartx "github.com/tanpawarit/pharmapilot/report/chart"
)

func InjectChartPlaceholders(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Content = chartx.InjectPlaceholders(in.Answer)
	return in, nil
}
