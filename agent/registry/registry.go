// Package registry is the static table of research agents, in routing order.
package registry

import (
	"fmt"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	promptx "github.com/tanpawarit/pharmapilot/agent/prompt"
)

// SynthesisDisplayName is the display name of the report agent appended to every run.
const SynthesisDisplayName = "Report Generator"

type entry struct {
	key         contractx.Domain
	displayName string
	summary     string
	keywords    []string
}

var table = []entry{
	{
		key:         contractx.DomainMarket,
		displayName: "IQVIA Market Analysis",
		summary:     "For market analysis, TAM, CAGR, revenue, competitors, market share",
		keywords:    []string{"market", "tam", "cagr", "revenue", "sales", "competitors", "market share", "pricing"},
	},
	{
		key:         contractx.DomainPatent,
		displayName: "Patent Landscape",
		summary:     "For patent landscape, IP, FTO, expiry dates, litigation",
		keywords:    []string{"patent", "ip", "intellectual property", "fto", "freedom to operate", "expiry", "loe", "litigation"},
	},
	{
		key:         contractx.DomainTrials,
		displayName: "Clinical Trials",
		summary:     "For clinical trials, pipeline, phases, FDA approvals",
		keywords:    []string{"clinical", "trials", "pipeline", "phase", "fda", "approval", "endpoint", "enrollment"},
	},
	{
		key:         contractx.DomainTrade,
		displayName: "Trade & Supply Chain",
		summary:     "For import/export data, supply chain, suppliers",
		keywords:    []string{"trade", "import", "export", "supply chain", "api", "supplier", "exim", "sourcing"},
	},
	{
		key:         contractx.DomainInternal,
		displayName: "Internal Knowledge",
		summary:     "For internal company documents and strategy",
		keywords:    []string{"internal", "strategy", "portfolio", "documents", "company", "proprietary"},
	},
	{
		key:         contractx.DomainWeb,
		displayName: "Web Intelligence",
		summary:     "For web search, news, regulatory updates, guidelines",
		keywords:    []string{"web", "news", "regulatory", "guidelines", "publications", "recent", "external", "search"},
	},
}

var (
	descriptors = mustBuild()
	index       = indexByKey(descriptors)
)

func mustBuild() []contractx.AgentDescriptor {
	prompts := promptx.MustLoadPromptSet()
	out := make([]contractx.AgentDescriptor, 0, len(table))
	for _, e := range table {
		p, ok := prompts.Agents[string(e.key)]
		if !ok {
			panic(fmt.Sprintf("registry: no prompt for agent %q", e.key))
		}
		out = append(out, contractx.AgentDescriptor{
			Key:         e.key,
			DisplayName: e.displayName,
			Summary:     e.summary,
			Keywords:    append([]string(nil), e.keywords...),
			Persona:     p.Persona,
			Task:        p.Task,
		})
	}
	return out
}

func indexByKey(ds []contractx.AgentDescriptor) map[contractx.Domain]int {
	m := make(map[contractx.Domain]int, len(ds))
	for i, d := range ds {
		m[d.Key] = i
	}
	return m
}

// Lookup returns the descriptor for key.
func Lookup(key contractx.Domain) (contractx.AgentDescriptor, error) {
	i, ok := index[key]
	if !ok {
		return contractx.AgentDescriptor{}, &contractx.UnknownDomainError{Key: string(key)}
	}
	return clone(descriptors[i]), nil
}

// Has reports whether key is a registered domain.
func Has(key contractx.Domain) bool {
	_, ok := index[key]
	return ok
}

// Position returns the registry order of key, or -1.
func Position(key contractx.Domain) int {
	if i, ok := index[key]; ok {
		return i
	}
	return -1
}

func All() []contractx.AgentDescriptor {
	out := make([]contractx.AgentDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, clone(d))
	}
	return out
}

func Keys() []contractx.Domain {
	out := make([]contractx.Domain, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d.Key)
	}
	return out
}

// DisplayNames maps keys to display names, preserving order. Unknown keys fail.
func DisplayNames(keys []contractx.Domain) ([]string, error) {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		d, err := Lookup(k)
		if err != nil {
			return nil, err
		}
		out = append(out, d.DisplayName)
	}
	return out, nil
}

// SynthesisPrompt returns the report generator persona and task template.
func SynthesisPrompt() (contractx.Persona, contractx.TaskTemplate) {
	p := promptx.MustLoadPromptSet().Synthesis
	return p.Persona, p.Task
}

func clone(d contractx.AgentDescriptor) contractx.AgentDescriptor {
	d.Keywords = append([]string(nil), d.Keywords...)
	return d
}
