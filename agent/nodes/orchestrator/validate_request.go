package orchestratornode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	taskx "github.com/tanpawarit/pharmapilot/agent/task"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
)

type GraphInput struct {
	Query    string
	Molecule string
}

type GraphOutput = contractx.ResearchResult

type GraphState struct {
	Query    string
	Molecule string
	Now      time.Time

	Domains     []contractx.Domain
	RoutePath   string
	AgentNames  []string
	Tasks       taskx.Graph
	Workers     map[contractx.Domain]contractx.Worker
	Synthesizer contractx.Synthesizer

	Sections []contractx.WorkerOutput
	Answer   string

	ResearchData contractx.ResearchData
	Content      string
	Charts       []contractx.ChartSpec
	ReportPDF    string
}

// ValidateRequest trims the input and fills the molecule from the query when none was given.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	molecule := strings.TrimSpace(in.Molecule)
	if molecule == "" {
		if info, ok := providerx.DetectMolecule(query); ok {
			molecule = info.Name
		}
	}

	return &GraphState{
		Query:    query,
		Molecule: molecule,
		Now:      nowFn().UTC(),
	}, nil
}
