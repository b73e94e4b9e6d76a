package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
)

// Completer issues single-turn chat completions with an explicit temperature.
type Completer struct {
	client *openaisdk.Client
	model  string
	system string
}

type CompleterOption func(*Completer)

// WithSystemPrompt prepends a system message to every completion.
func WithSystemPrompt(prompt string) CompleterOption {
	return func(c *Completer) {
		c.system = strings.TrimSpace(prompt)
	}
}

func NewCompleter(client *openaisdk.Client, model string, opts ...CompleterOption) (*Completer, error) {
	if client == nil {
		return nil, errors.New("openrouter: client is required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("openrouter: model is required")
	}
	c := &Completer{client: client, model: model}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Completer) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if c.system != "" {
		messages = append(messages, openaisdk.SystemMessage(c.system))
	}
	messages = append(messages, openaisdk.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.model),
		Messages:    messages,
		Temperature: openaisdk.Float(float64(temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openrouter: completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
