package contract

import (
	"context"

	providerx "github.com/tanpawarit/pharmapilot/data/provider"
)

// Completer is a plain text completion capability.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)
}

type Worker interface {
	Run(ctx context.Context, req WorkerRequest) (WorkerOutput, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (string, error)
}

type Registry interface {
	Worker(domain Domain) (Worker, error)
	Synthesizer() Synthesizer
}

type ToolGateway interface {
	Execute(ctx context.Context, domain Domain, reqs []ToolRequest) ([]ToolResult, error)
}

type DataSource interface {
	Market(ctx context.Context, molecule string) (*providerx.MarketPayload, error)
	Trade(ctx context.Context, molecule string) (*providerx.TradePayload, error)
	Patents(ctx context.Context, molecule string) (*providerx.PatentPayload, error)
	Trials(ctx context.Context, molecule string) (*providerx.TrialsPayload, error)
	InternalDocs(ctx context.Context, query string) (*providerx.InternalDocsPayload, error)
	Web(ctx context.Context, query string) (*providerx.WebPayload, error)
}

type ChartGenerator interface {
	Generate(data ResearchData) []ChartSpec
}

type PDFRenderer interface {
	Render(ctx context.Context, data ResearchData, molecule string) (string, error)
}
