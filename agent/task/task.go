// Package task turns an agent selection into the two-layer research task graph.
package task

import (
	"fmt"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	promptx "github.com/tanpawarit/pharmapilot/agent/prompt"
	registryx "github.com/tanpawarit/pharmapilot/agent/registry"
)

const SynthesisID = "report_task"

// NoDataAvailable stands in for a worker that produced nothing.
const NoDataAvailable = "No data available"

// Graph is one layer of independent worker tasks plus the synthesis sink.
type Graph struct {
	Workers   []contractx.Task
	Synthesis contractx.Task
}

// All returns the workers followed by the synthesis task.
func (g Graph) All() []contractx.Task {
	out := make([]contractx.Task, 0, len(g.Workers)+1)
	out = append(out, g.Workers...)
	return append(out, g.Synthesis)
}

func WorkerID(d contractx.Domain) string {
	return string(d) + "_task"
}

type templateData struct {
	Molecule string
	Query    string
	Agents   []string
}

func Build(keys []contractx.Domain, molecule, query string) (Graph, error) {
	if len(keys) == 0 {
		return Graph{}, fmt.Errorf("%w: at least one agent must be selected", contractx.ErrValidation)
	}

	data := templateData{Molecule: molecule, Query: query}
	if data.Molecule == "" {
		data.Molecule = "the molecule in the query"
	}

	var g Graph
	seen := make(map[contractx.Domain]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		d, err := registryx.Lookup(key)
		if err != nil {
			return Graph{}, err
		}
		t, err := render(d.Task, data, string(key))
		if err != nil {
			return Graph{}, err
		}
		t.ID = WorkerID(key)
		t.Domain = key
		t.AgentName = d.DisplayName
		t.Async = true
		g.Workers = append(g.Workers, t)
		data.Agents = append(data.Agents, d.DisplayName)
	}

	_, synthTemplate := registryx.SynthesisPrompt()
	data.Molecule = molecule
	synth, err := render(synthTemplate, data, "synthesis")
	if err != nil {
		return Graph{}, err
	}
	synth.ID = SynthesisID
	synth.AgentName = registryx.SynthesisDisplayName
	synth.DependsOn = make([]string, 0, len(g.Workers))
	for _, w := range g.Workers {
		synth.DependsOn = append(synth.DependsOn, w.ID)
	}
	g.Synthesis = synth

	return g, nil
}

func render(tmpl contractx.TaskTemplate, data templateData, name string) (contractx.Task, error) {
	desc, err := promptx.Render(name+".description", tmpl.Description, data)
	if err != nil {
		return contractx.Task{}, err
	}
	expected, err := promptx.Render(name+".expected_output", tmpl.ExpectedOutput, data)
	if err != nil {
		return contractx.Task{}, err
	}
	return contractx.Task{Description: desc, ExpectedOutput: expected}, nil
}
