package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	registryx "github.com/tanpawarit/pharmapilot/agent/registry"
	taskx "github.com/tanpawarit/pharmapilot/agent/task"
	providerx "github.com/tanpawarit/pharmapilot/data/provider"
)

const (
	agentMaster          = "master"
	agentReportGenerator = "report_generator"

	singleAgentExpectedOutput = "Detailed analysis based on the query"
)

// agentAliases accepts the legacy agent names next to the domain keys.
var agentAliases = map[string]contractx.Domain{
	"iqvia":              contractx.DomainMarket,
	"exim":               contractx.DomainTrade,
	"clinical_trials":    contractx.DomainTrials,
	"internal_knowledge": contractx.DomainInternal,
	"web_search":         contractx.DomainWeb,
}

type executeAgentRequest struct {
	AgentType string `json:"agent_type"`
	InputText string `json:"input_text"`
	ProjectID *int64 `json:"project_id,omitempty"`
}

type executeAgentResponse struct {
	Result    string `json:"result"`
	AgentType string `json:"agent_type"`
	Status    string `json:"status"`
}

var errUnknownAgent = errors.New("unknown agent type")

func (s *Server) handleExecuteAgent(w http.ResponseWriter, r *http.Request) {
	var req executeAgentRequest
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	agentType := strings.TrimSpace(req.AgentType)
	input := strings.TrimSpace(req.InputText)
	if agentType == "" || input == "" {
		writeDetail(w, http.StatusBadRequest, "agent_type and input_text are required")
		return
	}

	result, err := s.executeAgent(r.Context(), agentType, input)
	if err != nil {
		if errors.Is(err, errUnknownAgent) {
			writeDetail(w, http.StatusBadRequest, "Unknown agent type: "+agentType)
			return
		}
		s.internalDetail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, executeAgentResponse{Result: result, AgentType: agentType, Status: "success"})
}

func (s *Server) executeAgent(ctx context.Context, agentType, input string) (string, error) {
	switch agentType {
	case agentMaster:
		out, err := s.deps.Researcher.Research(ctx, contractx.ResearchRequest{Query: input})
		if err != nil {
			return "", err
		}
		return out.Content, nil
	case agentReportGenerator:
		return s.deps.Agents.Synthesizer().Synthesize(ctx, contractx.SynthesisRequest{
			Task: contractx.Task{
				ID:             taskx.SynthesisID,
				AgentName:      registryx.SynthesisDisplayName,
				Description:    input,
				ExpectedOutput: singleAgentExpectedOutput,
			},
			Query: input,
		})
	}

	domain, ok := resolveAgent(agentType)
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnknownAgent, agentType)
	}
	worker, err := s.deps.Agents.Worker(domain)
	if err != nil {
		return "", err
	}

	var molecule string
	if info, found := providerx.DetectMolecule(input); found {
		molecule = info.Name
	}
	desc, err := registryx.Lookup(domain)
	if err != nil {
		return "", err
	}

	out, err := worker.Run(ctx, contractx.WorkerRequest{
		Task: contractx.Task{
			ID:             taskx.WorkerID(domain),
			Domain:         domain,
			AgentName:      desc.DisplayName,
			Description:    input,
			ExpectedOutput: singleAgentExpectedOutput,
		},
		Query:    input,
		Molecule: molecule,
	})
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

func resolveAgent(agentType string) (contractx.Domain, bool) {
	key := strings.ToLower(agentType)
	if d, ok := agentAliases[key]; ok {
		return d, true
	}
	d := contractx.Domain(key)
	return d, registryx.Has(d)
}
