package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	routerx "github.com/tanpawarit/pharmapilot/agent/router"
	taskx "github.com/tanpawarit/pharmapilot/agent/task"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
	chartx "github.com/tanpawarit/pharmapilot/report/chart"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type fakeRouter struct {
	domains []contractx.Domain
	mu      sync.Mutex
	calls   []string
}

func (f *fakeRouter) Decide(ctx context.Context, query, molecule string) routerx.Decision {
	f.mu.Lock()
	f.calls = append(f.calls, query+"|"+molecule)
	f.mu.Unlock()
	return routerx.Decision{Domains: f.domains, Path: "keyword"}
}

type fakeWorker struct {
	content string
	err     error
	panics  bool

	mu   sync.Mutex
	reqs []contractx.WorkerRequest
}

func (f *fakeWorker) Run(ctx context.Context, req contractx.WorkerRequest) (contractx.WorkerOutput, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return contractx.WorkerOutput{}, f.err
	}
	return contractx.WorkerOutput{Content: f.content}, nil
}

type fakeSynthesizer struct {
	answer string
	err    error

	mu   sync.Mutex
	reqs []contractx.SynthesisRequest
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, req contractx.SynthesisRequest) (string, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeRegistry struct {
	workers map[contractx.Domain]*fakeWorker
	synth   *fakeSynthesizer
}

func (f *fakeRegistry) Worker(domain contractx.Domain) (contractx.Worker, error) {
	w, ok := f.workers[domain]
	if !ok {
		return nil, &contractx.UnknownDomainError{Key: string(domain)}
	}
	return w, nil
}

func (f *fakeRegistry) Synthesizer() contractx.Synthesizer {
	return f.synth
}

type fakeSource struct {
	marketErr error
	mu        sync.Mutex
	calls     []string
}

func (f *fakeSource) record(name, arg string) {
	f.mu.Lock()
	f.calls = append(f.calls, name+":"+arg)
	f.mu.Unlock()
}

func (f *fakeSource) Market(ctx context.Context, molecule string) (*providerx.MarketPayload, error) {
	f.record("market", molecule)
	if f.marketErr != nil {
		return nil, f.marketErr
	}
	return &providerx.MarketPayload{Molecule: molecule}, nil
}

func (f *fakeSource) Trade(ctx context.Context, molecule string) (*providerx.TradePayload, error) {
	f.record("trade", molecule)
	return &providerx.TradePayload{}, nil
}

func (f *fakeSource) Patents(ctx context.Context, molecule string) (*providerx.PatentPayload, error) {
	f.record("patent", molecule)
	return &providerx.PatentPayload{}, nil
}

func (f *fakeSource) Trials(ctx context.Context, molecule string) (*providerx.TrialsPayload, error) {
	f.record("trials", molecule)
	return &providerx.TrialsPayload{}, nil
}

func (f *fakeSource) InternalDocs(ctx context.Context, query string) (*providerx.InternalDocsPayload, error) {
	f.record("internal", query)
	return &providerx.InternalDocsPayload{}, nil
}

func (f *fakeSource) Web(ctx context.Context, query string) (*providerx.WebPayload, error) {
	f.record("web", query)
	return &providerx.WebPayload{}, nil
}

type fakeCharts struct {
	panics bool
}

func (f fakeCharts) Generate(data contractx.ResearchData) []contractx.ChartSpec {
	if f.panics {
		panic("chart exploded")
	}
	if data.MarketData == nil {
		return []contractx.ChartSpec{}
	}
	return []contractx.ChartSpec{{ID: "revenue_forecast", Type: "line"}}
}

type fakePDF struct {
	err error
}

func (f fakePDF) Render(ctx context.Context, data contractx.ResearchData, molecule string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "JVBERi0=", nil
}

type fixture struct {
	router *fakeRouter
	models *fakeRegistry
	source *fakeSource
}

func newFixture(domains ...contractx.Domain) *fixture {
	workers := make(map[contractx.Domain]*fakeWorker, len(domains))
	for _, d := range domains {
		workers[d] = &fakeWorker{content: string(d) + " findings"}
	}
	return &fixture{
		router: &fakeRouter{domains: domains},
		models: &fakeRegistry{
			workers: workers,
			synth:   &fakeSynthesizer{answer: "## Market Intelligence\n\nRevenue grows.\n\n## Clinical Trials\n\nTen trials.\n\n"},
		},
		source: &fakeSource{},
	}
}

func (f *fixture) orchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	o, err := New(f.router, f.models, f.source, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket)
	if _, err := New(nil, f.models, f.source); err == nil {
		t.Fatalf("expected router error")
	}
	if _, err := New(f.router, nil, f.source); err == nil {
		t.Fatalf("expected registry error")
	}
	if _, err := New(f.router, f.models, nil); err == nil {
		t.Fatalf("expected data source error")
	}
}

func TestResearchRejectsEmptyQuery(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket)
	o := f.orchestrator(t)

	_, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "   "})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.router.calls) != 0 {
		t.Fatalf("router must not run for invalid input")
	}
}

func TestResearchHappyPath(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket, contractx.DomainTrials)
	o := f.orchestrator(t, WithCharts(fakeCharts{}), WithPDF(fakePDF{}))

	out, err := o.Research(context.Background(), contractx.ResearchRequest{
		Query: "What is the market size and trial pipeline for Metformin?",
	})
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}

	if out.Status != "success" {
		t.Fatalf("unexpected status %q", out.Status)
	}
	if out.Molecule != "Metformin" {
		t.Fatalf("expected molecule detected from query, got %q", out.Molecule)
	}
	if got := strings.Join(out.AgentsUsed, ","); got != "IQVIA Market Analysis,Clinical Trials" {
		t.Fatalf("unexpected agents used %q", got)
	}
	if !strings.Contains(out.Content, "{{CHART:revenue_forecast}}") {
		t.Fatalf("expected revenue placeholder in content: %q", out.Content)
	}
	if !strings.Contains(out.Content, "{{CHART:pipeline_summary}}") {
		t.Fatalf("expected pipeline placeholder in content: %q", out.Content)
	}
	if out.Response != out.Content {
		t.Fatalf("response and content must match")
	}
	if strings.Contains(out.ResearchData.Summary, "{{CHART:") {
		t.Fatalf("summary must hold the answer before placeholders: %q", out.ResearchData.Summary)
	}
	if out.ResearchData.MarketData == nil || out.ResearchData.MarketData.Molecule != "Metformin" {
		t.Fatalf("expected market payload for Metformin, got %+v", out.ResearchData.MarketData)
	}
	if out.ResearchData.ClinicalTrials == nil {
		t.Fatalf("expected trials payload")
	}
	if out.ResearchData.PatentData != nil || out.ResearchData.TradeData != nil {
		t.Fatalf("unselected domains must not fetch payloads")
	}
	if !out.Timestamp.Equal(fixedNow) || !out.ResearchData.Timestamp.Equal(fixedNow) {
		t.Fatalf("unexpected timestamps %v %v", out.Timestamp, out.ResearchData.Timestamp)
	}
	if len(out.Charts) != 1 || out.ReportPDF != "JVBERi0=" {
		t.Fatalf("unexpected render outputs charts=%d pdf=%q", len(out.Charts), out.ReportPDF)
	}

	synth := f.models.synth
	if len(synth.reqs) != 1 {
		t.Fatalf("expected one synthesis call, got %d", len(synth.reqs))
	}
	req := synth.reqs[0]
	if req.Task.ID != taskx.SynthesisID {
		t.Fatalf("unexpected synthesis task %q", req.Task.ID)
	}
	if req.Query != "What is the market size and trial pipeline for Metformin?" || req.Molecule != "Metformin" {
		t.Fatalf("synthesis must see the request, got query=%q molecule=%q", req.Query, req.Molecule)
	}
	if len(req.Sections) != 2 {
		t.Fatalf("expected two sections, got %d", len(req.Sections))
	}
	if req.Sections[0].TaskID != "market_task" || req.Sections[0].Content != "market findings" {
		t.Fatalf("unexpected first section %+v", req.Sections[0])
	}
	if req.Sections[1].AgentName != "Clinical Trials" {
		t.Fatalf("unexpected second section %+v", req.Sections[1])
	}

	worker := f.models.workers[contractx.DomainMarket]
	if len(worker.reqs) != 1 || worker.reqs[0].Molecule != "Metformin" {
		t.Fatalf("unexpected worker requests %+v", worker.reqs)
	}
}

func TestResearchKeepsExplicitMolecule(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket)
	o := f.orchestrator(t)

	out, err := o.Research(context.Background(), contractx.ResearchRequest{
		Query:    "market outlook for Metformin",
		Molecule: "Losartan",
	})
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if out.Molecule != "Losartan" {
		t.Fatalf("expected explicit molecule, got %q", out.Molecule)
	}
	if len(f.source.calls) != 1 || f.source.calls[0] != "market:Losartan" {
		t.Fatalf("unexpected provider calls %v", f.source.calls)
	}
}

func TestResearchWorkerFailureDoesNotAbortRun(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket, contractx.DomainPatent)
	f.models.workers[contractx.DomainPatent].err = errors.New("upstream timeout")
	o := f.orchestrator(t)

	out, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "market and patents for Metformin"})
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if out.Content == "" {
		t.Fatalf("expected content")
	}

	sections := f.models.synth.reqs[0].Sections
	if len(sections) != 2 {
		t.Fatalf("expected two sections, got %d", len(sections))
	}
	if sections[0].Failed {
		t.Fatalf("market section must succeed")
	}
	if !sections[1].Failed || !strings.Contains(sections[1].Error, "upstream timeout") {
		t.Fatalf("expected failed patent section, got %+v", sections[1])
	}
}

func TestResearchWorkerPanicBecomesFailedSection(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainTrade, contractx.DomainWeb)
	f.models.workers[contractx.DomainWeb].panics = true
	o := f.orchestrator(t)

	if _, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "trade and news for Metformin"}); err != nil {
		t.Fatalf("Research() error = %v", err)
	}

	sections := f.models.synth.reqs[0].Sections
	if !sections[1].Failed || sections[1].Domain != contractx.DomainWeb {
		t.Fatalf("expected failed web section, got %+v", sections[1])
	}
}

func TestResearchSynthesisErrorIsOrchestrationError(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket)
	f.models.synth.err = contractx.ErrModelInvoke
	o := f.orchestrator(t)

	_, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "market for Metformin"})
	if !errors.Is(err, contractx.ErrOrchestration) {
		t.Fatalf("expected ErrOrchestration, got %v", err)
	}
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected model cause to be kept, got %v", err)
	}
}

func TestResearchEmptySynthesisFallsBackToSections(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket)
	f.models.synth.answer = "  "
	o := f.orchestrator(t)

	out, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "market for Metformin"})
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if !strings.Contains(out.Content, "market findings") {
		t.Fatalf("expected section fallback, got %q", out.Content)
	}
}

func TestResearchNoAnswerAtAllFails(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket)
	f.models.synth.answer = ""
	f.models.workers[contractx.DomainMarket].err = errors.New("down")
	o := f.orchestrator(t)

	_, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "market for Metformin"})
	if !errors.Is(err, contractx.ErrOrchestration) {
		t.Fatalf("expected ErrOrchestration, got %v", err)
	}
}

func TestResearchProviderFailureOmitsPayload(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket, contractx.DomainTrials)
	f.source.marketErr = errors.New("provider down")
	o := f.orchestrator(t)

	out, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "market and trials for Metformin"})
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if out.ResearchData.MarketData != nil {
		t.Fatalf("expected market payload omitted")
	}
	if out.ResearchData.ClinicalTrials == nil {
		t.Fatalf("expected trials payload kept")
	}
}

func TestResearchRenderFailuresDegrade(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket)
	o := f.orchestrator(t, WithCharts(fakeCharts{panics: true}), WithPDF(fakePDF{err: errors.New("no fonts")}))

	out, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "market for Metformin"})
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if out.Charts == nil || len(out.Charts) != 0 {
		t.Fatalf("expected empty non-nil charts, got %#v", out.Charts)
	}
	if out.ReportPDF != "" {
		t.Fatalf("expected empty pdf, got %q", out.ReportPDF)
	}
}

func TestResearchUnknownWorkerIsOrchestrationError(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket)
	f.router.domains = []contractx.Domain{contractx.DomainMarket, contractx.DomainInternal}
	o := f.orchestrator(t)

	_, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "market and strategy"})
	if !errors.Is(err, contractx.ErrOrchestration) {
		t.Fatalf("expected ErrOrchestration, got %v", err)
	}
	if !errors.Is(err, contractx.ErrUnknownDomain) {
		t.Fatalf("expected unknown domain cause, got %v", err)
	}
}

func TestResearchIsRepeatableForSameRequest(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket, contractx.DomainTrials, contractx.DomainTrade)
	source := providerx.New(providerx.WithSeed(42), providerx.WithClock(func() time.Time { return fixedNow }))
	o, err := New(f.router, f.models, source,
		WithClock(func() time.Time { return fixedNow }),
		WithCharts(chartx.New()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	req := contractx.ResearchRequest{Query: "market, trials and exports for Metformin", Molecule: "Metformin"}
	chartIDs := func(charts []contractx.ChartSpec) map[string]bool {
		ids := make(map[string]bool, len(charts))
		for _, c := range charts {
			ids[c.ID] = true
		}
		return ids
	}

	first, err := o.Research(context.Background(), req)
	if err != nil {
		t.Fatalf("first Research() error = %v", err)
	}
	second, err := o.Research(context.Background(), req)
	if err != nil {
		t.Fatalf("second Research() error = %v", err)
	}

	if got, want := strings.Join(second.AgentsUsed, ","), strings.Join(first.AgentsUsed, ","); got != want {
		t.Fatalf("agents used differ: %q vs %q", got, want)
	}
	firstIDs, secondIDs := chartIDs(first.Charts), chartIDs(second.Charts)
	if len(firstIDs) == 0 {
		t.Fatal("expected charts from provider data")
	}
	if len(firstIDs) != len(secondIDs) {
		t.Fatalf("chart ids differ: %v vs %v", firstIDs, secondIDs)
	}
	for id := range firstIDs {
		if !secondIDs[id] {
			t.Fatalf("chart %s missing from second run: %v", id, secondIDs)
		}
	}
	if first.Content != second.Content {
		t.Fatalf("content differs between runs")
	}
}

func TestResearchFetchesProvidersWithoutMolecule(t *testing.T) {
	t.Parallel()

	f := newFixture(contractx.DomainMarket, contractx.DomainWeb)
	o := f.orchestrator(t)

	out, err := o.Research(context.Background(), contractx.ResearchRequest{Query: "global diabetes market outlook"})
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}
	if out.Molecule != "" {
		t.Fatalf("expected no molecule, got %q", out.Molecule)
	}
	if len(f.source.calls) != 1 || f.source.calls[0] != "market:" {
		t.Fatalf("expected one market fetch with an empty molecule, got %v", f.source.calls)
	}
	if out.ResearchData.MarketData == nil {
		t.Fatal("expected market payload")
	}
}
