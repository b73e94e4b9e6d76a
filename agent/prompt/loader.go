package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	"gopkg.in/yaml.v3"
)

//go:embed template/agents.yaml
var agentsRaw []byte

type AgentPrompt struct {
	Persona contractx.Persona      `yaml:"persona"`
	Task    contractx.TaskTemplate `yaml:"task"`
}

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Agents    map[string]AgentPrompt `yaml:"agents"`
	Synthesis AgentPrompt            `yaml:"synthesis"`
	Router    string                 `yaml:"router"`
	Worker    string                 `yaml:"worker"`
}

var (
	loadOnce sync.Once
	loaded   PromptSet
	loadErr  error
)

// LoadPromptSet parses the embedded prompt file once and returns a copy of the result.
func LoadPromptSet() (PromptSet, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parsePromptSet(agentsRaw)
	})
	return loaded, loadErr
}

// MustLoadPromptSet panics when the embedded prompt file is malformed.
func MustLoadPromptSet() PromptSet {
	set, err := LoadPromptSet()
	if err != nil {
		panic(err)
	}
	return set
}

func parsePromptSet(raw []byte) (PromptSet, error) {
	var set PromptSet
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return PromptSet{}, fmt.Errorf("%w: parse agents.yaml: %v", contractx.ErrPromptMissing, err)
	}

	for key, agent := range set.Agents {
		agent.Persona = trimPersona(agent.Persona)
		agent.Task = trimTask(agent.Task)
		if agent.Persona.Role == "" || agent.Task.Description == "" {
			return PromptSet{}, fmt.Errorf("%w: agent %q needs a role and a task description", contractx.ErrPromptMissing, key)
		}
		if strings.ContainsAny(agent.Persona.Backstory+agent.Persona.Goal, "{}") {
			return PromptSet{}, fmt.Errorf("%w: agent %q persona must not contain braces", contractx.ErrPromptMissing, key)
		}
		set.Agents[key] = agent
	}
	set.Synthesis.Persona = trimPersona(set.Synthesis.Persona)
	set.Synthesis.Task = trimTask(set.Synthesis.Task)
	set.Router = strings.TrimSpace(set.Router)
	set.Worker = strings.TrimSpace(set.Worker)

	if set.Router == "" || set.Synthesis.Task.Description == "" {
		return PromptSet{}, fmt.Errorf("%w: router and synthesis prompts are required", contractx.ErrPromptMissing)
	}
	return set, nil
}

func trimPersona(p contractx.Persona) contractx.Persona {
	return contractx.Persona{
		Role:      strings.TrimSpace(p.Role),
		Goal:      strings.TrimSpace(p.Goal),
		Backstory: strings.TrimSpace(p.Backstory),
	}
}

func trimTask(t contractx.TaskTemplate) contractx.TaskTemplate {
	return contractx.TaskTemplate{
		Description:    strings.TrimSpace(t.Description),
		ExpectedOutput: strings.TrimSpace(t.ExpectedOutput),
	}
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// Render executes a text/template prompt against data.
func Render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: parse template %s: %v", contractx.ErrPromptMissing, name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: render template %s: %v", contractx.ErrPromptMissing, name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// SystemPrompt assembles a persona into a system message.
func SystemPrompt(p contractx.Persona, instructions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the %s.\n", p.Role)
	if p.Goal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	}
	if p.Backstory != "" {
		b.WriteString("\n")
		b.WriteString(p.Backstory)
		b.WriteString("\n")
	}
	if instructions = strings.TrimSpace(instructions); instructions != "" {
		b.WriteString("\n")
		b.WriteString(instructions)
	}
	return strings.TrimSpace(b.String())
}
