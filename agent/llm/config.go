package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	openrouterx "github.com/tanpawarit/pharmapilot/pkg/openrouter"
)

// RouterTemperature is the sampling temperature for the routing fallback.
const RouterTemperature float32 = 0.1

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true" default:"PharmaPilot"`

	RouterModel          string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	WorkerModel          string  `envconfig:"WORKER_MODEL" split_words:"true"`
	SynthesisModel       string  `envconfig:"SYNTHESIS_MODEL" split_words:"true"`
	WorkerTemperature    float32 `envconfig:"WORKER_TEMPERATURE" split_words:"true" default:"-1"`
	SynthesisTemperature float32 `envconfig:"SYNTHESIS_TEMPERATURE" split_words:"true" default:"-1"`
	SynthesisMaxTokens   int     `envconfig:"SYNTHESIS_MAX_TOKENS" split_words:"true" default:"4000"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(role contractx.AgentRole) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature
	maxCompletionToken := c.MaxCompletionToken

	switch role {
	case contractx.AgentRoleRouter:
		if v := strings.TrimSpace(c.RouterModel); v != "" {
			modelName = v
		}
		temp = RouterTemperature
	case contractx.AgentRoleWorker:
		if v := strings.TrimSpace(c.WorkerModel); v != "" {
			modelName = v
		}
		if c.WorkerTemperature >= 0 {
			temp = c.WorkerTemperature
		}
	case contractx.AgentRoleSynthesis:
		if v := strings.TrimSpace(c.SynthesisModel); v != "" {
			modelName = v
		}
		if c.SynthesisTemperature >= 0 {
			temp = c.SynthesisTemperature
		}
		if c.SynthesisMaxTokens > 0 {
			maxCompletionToken = c.SynthesisMaxTokens
		}
	}

	return openrouterx.Config{
		Role:               string(role),
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
