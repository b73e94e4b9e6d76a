// Package router decides which research agents a query needs.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	llmx "github.com/tanpawarit/pharmapilot/agent/llm"
	promptx "github.com/tanpawarit/pharmapilot/agent/prompt"
	registryx "github.com/tanpawarit/pharmapilot/agent/registry"
	metricsx "github.com/tanpawarit/pharmapilot/pkg/metrics"
)

var errNoArray = errors.New("reply contains no JSON array")

// Decision records how a selection was reached.
type Decision struct {
	Domains []contractx.Domain
	Path    string
	Cause   error
}

type Option func(*Router)

// WithTimeout bounds the LLM fallback call.
func WithTimeout(d time.Duration) Option {
	return func(r *Router) {
		if d > 0 {
			r.timeout = d
		}
	}
}

type Router struct {
	completer contractx.Completer
	timeout   time.Duration
}

// New builds a router. A nil completer makes every non-keyword query fail open.
func New(completer contractx.Completer, opts ...Option) *Router {
	r := &Router{
		completer: completer,
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DetermineRequiredAgents returns a non-empty subset of registry keys in registry order.
func (r *Router) DetermineRequiredAgents(ctx context.Context, query, molecule string) []contractx.Domain {
	return r.Decide(ctx, query, molecule).Domains
}

func (r *Router) Decide(ctx context.Context, query, molecule string) Decision {
	if matched := MatchKeywords(query); len(matched) > 0 {
		metricsx.RouterDecisions.WithLabelValues(metricsx.RoutePathKeyword).Inc()
		log.Ctx(ctx).Debug().Str("query", query).Interface("agents", matched).Msg("router: keyword match")
		return Decision{Domains: matched, Path: metricsx.RoutePathKeyword}
	}

	domains, err := r.fallback(ctx, query, molecule)
	if err != nil {
		all := registryx.Keys()
		metricsx.RouterDecisions.WithLabelValues(metricsx.RoutePathFailOpen).Inc()
		log.Ctx(ctx).Warn().Err(err).Str("query", query).Msg("router: fallback failed, selecting all agents")
		return Decision{Domains: all, Path: metricsx.RoutePathFailOpen, Cause: err}
	}

	metricsx.RouterDecisions.WithLabelValues(metricsx.RoutePathLLM).Inc()
	log.Ctx(ctx).Info().Str("query", query).Interface("agents", domains).Msg("router: llm selection")
	return Decision{Domains: domains, Path: metricsx.RoutePathLLM}
}

// MatchKeywords returns the domains whose keywords occur in the lower-cased query, in registry order.
func MatchKeywords(query string) []contractx.Domain {
	lowered := strings.ToLower(query)
	var out []contractx.Domain
	for _, d := range registryx.All() {
		for _, kw := range d.Keywords {
			if strings.Contains(lowered, kw) {
				out = append(out, d.Key)
				break
			}
		}
	}
	return out
}

func (r *Router) fallback(ctx context.Context, query, molecule string) (domains []contractx.Domain, err error) {
	if r.completer == nil {
		return nil, errors.New("no completer configured")
	}

	prompt, err := BuildPrompt(query, molecule)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			domains, err = nil, fmt.Errorf("%w: completer panic: %v", contractx.ErrModelInvoke, rec)
		}
	}()

	reply, err := r.completer.Complete(callCtx, prompt, llmx.RouterTemperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return ParseSelection(reply)
}

// BuildPrompt renders the routing prompt for the LLM fallback.
func BuildPrompt(query, molecule string) (string, error) {
	prompts, err := promptx.LoadPromptSet()
	if err != nil {
		return "", err
	}

	keys := registryx.Keys()
	quoted := make([]string, 0, len(keys))
	for _, k := range keys {
		quoted = append(quoted, fmt.Sprintf("%q", k))
	}

	type agentLine struct {
		Key     contractx.Domain
		Summary string
	}
	agents := make([]agentLine, 0, len(keys))
	for _, d := range registryx.All() {
		agents = append(agents, agentLine{Key: d.Key, Summary: d.Summary})
	}

	return promptx.Render("router", prompts.Router, map[string]any{
		"Query":    query,
		"Molecule": molecule,
		"Agents":   agents,
		"AllKeys":  strings.Join(quoted, ", "),
	})
}

// ParseSelection extracts registry keys from the first '[' to the last ']' of reply.
// The result is deduplicated and in registry order; an empty result is an error.
func ParseSelection(reply string) ([]contractx.Domain, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: %w", contractx.ErrSchemaViolation, errNoArray)
	}

	var items []any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("%w: decode selection: %v", contractx.ErrSchemaViolation, err)
	}

	seen := make(map[contractx.Domain]bool, len(items))
	var out []contractx.Domain
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		key := contractx.Domain(s)
		if !registryx.Has(key) || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: selection names no known agent", contractx.ErrSchemaViolation)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return registryx.Position(out[i]) < registryx.Position(out[j])
	})
	return out, nil
}
