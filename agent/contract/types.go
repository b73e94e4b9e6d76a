package contract

import (
	"time"

	providerx "github.com/tanpawarit/pharmapilot/data/provider"
)

type Domain string

const (
	DomainMarket   Domain = "market"
	DomainPatent   Domain = "patent"
	DomainTrials   Domain = "trials"
	DomainTrade    Domain = "trade"
	DomainInternal Domain = "internal"
	DomainWeb      Domain = "web"
)

// AgentRole identifies an LLM role for model configuration.
type AgentRole string

const (
	AgentRoleRouter    AgentRole = "router"
	AgentRoleWorker    AgentRole = "worker"
	AgentRoleSynthesis AgentRole = "synthesis"
)

type Persona struct {
	Role      string `yaml:"role" json:"role"`
	Goal      string `yaml:"goal" json:"goal"`
	Backstory string `yaml:"backstory" json:"backstory"`
}

// TaskTemplate holds text/template sources rendered with the molecule.
type TaskTemplate struct {
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

type AgentDescriptor struct {
	Key         Domain
	DisplayName string
	Summary     string
	Keywords    []string
	Persona     Persona
	Task        TaskTemplate
}

type ResearchRequest struct {
	Query    string `json:"query"`
	Molecule string `json:"molecule,omitempty"`
}

type Task struct {
	ID             string   `json:"id"`
	Domain         Domain   `json:"domain,omitempty"`
	AgentName      string   `json:"agent_name"`
	Description    string   `json:"description"`
	ExpectedOutput string   `json:"expected_output"`
	Async          bool     `json:"async"`
	DependsOn      []string `json:"depends_on,omitempty"`
}

type WorkerRequest struct {
	Task     Task   `json:"task"`
	Query    string `json:"query"`
	Molecule string `json:"molecule"`
}

type WorkerOutput struct {
	TaskID      string       `json:"task_id"`
	Domain      Domain       `json:"domain"`
	AgentName   string       `json:"agent_name"`
	Content     string       `json:"content,omitempty"`
	Failed      bool         `json:"failed,omitempty"`
	Error       string       `json:"error,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type SynthesisRequest struct {
	Task     Task           `json:"task"`
	Query    string         `json:"query"`
	Molecule string         `json:"molecule"`
	Sections []WorkerOutput `json:"sections"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ResearchData is the structured evidence returned next to the synthesized answer.
type ResearchData struct {
	Summary        string                   `json:"summary"`
	AgentsUsed     []string                 `json:"agents_used"`
	Timestamp      time.Time                `json:"timestamp"`
	MarketData     *providerx.MarketPayload `json:"market_data,omitempty"`
	PatentData     *providerx.PatentPayload `json:"patent_data,omitempty"`
	ClinicalTrials *providerx.TrialsPayload `json:"clinical_trials,omitempty"`
	TradeData      *providerx.TradePayload  `json:"trade_data,omitempty"`
}

type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor any       `json:"backgroundColor,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
}

type ChartSpec struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Type     string         `json:"type"`
	Labels   []string       `json:"labels"`
	Values   []float64      `json:"values"`
	Datasets []ChartDataset `json:"datasets"`
}

type ResearchResult struct {
	Status       string       `json:"status"`
	Response     string       `json:"response"`
	Content      string       `json:"content"`
	AgentsUsed   []string     `json:"agents_used"`
	ResearchData ResearchData `json:"research_data"`
	ReportPDF    string       `json:"report_pdf"`
	Molecule     string       `json:"molecule"`
	Timestamp    time.Time    `json:"timestamp"`
	Charts       []ChartSpec  `json:"charts"`
}
