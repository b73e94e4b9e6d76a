// Package openrouter builds chat models and raw completion clients against OpenRouter's
// OpenAI-compatible API. Each agent role gets its own Config from llm.Config.OpenRouterFor.
package openrouter

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type ChatModelBuilder interface {
	New(ctx context.Context) (model.ToolCallingChatModel, error)
}

var _ ChatModelBuilder = (*Config)(nil)

// Models that stream reasoning tokens unless told not to. Reports only need the final text.
var reasoningExcluded = map[string]bool{
	"x-ai/grok-4.1-fast":   true,
	"deepseek/deepseek-r1": true,
}

// Config is the resolved model settings for one agent role.
type Config struct {
	Role               string        `ignored:"true"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken *int          `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
}

func (c *Config) label() string {
	if c.Role == "" {
		return "openrouter"
	}
	return "openrouter(" + c.Role + ")"
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%s: api key is required", c.label())
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%s: model is required", c.label())
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%s: temperature %.2f out of range [0, 2]", c.label(), c.Temperature)
	}
	return nil
}

// New builds the eino chat model used by worker and synthesis agents.
func (c *Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	modelName := strings.TrimSpace(c.Model)

	conf := &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(c.BaseURL, "/"),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       modelName,
		MaxTokens:   c.MaxCompletionToken,
		Temperature: &c.Temperature,
		Timeout:     c.Timeout,
	}
	if reasoningExcluded[modelName] {
		conf.ExtraFields = map[string]any{
			"reasoning": map[string]any{"exclude": true},
		}
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("%s: create chat model: %w", c.label(), err)
	}
	return m, nil
}

// NewClient returns a raw SDK client for single-turn completions, or nil without an API key
// so callers can fall back to keyword-only behaviour.
func NewClient(cfg Config) *openaisdk.Client {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	// OpenRouter app attribution
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
