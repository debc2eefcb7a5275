package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider on top of the Anthropic messages API.
type AnthropicProvider struct {
	client       *anthropic.Client
	defaultModel string
}

// NewAnthropicProvider creates an Anthropic-backed provider. It returns
// ErrUnconfigured when no API key is supplied.
func NewAnthropicProvider(apiKey, defaultModel string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, ErrUnconfigured
	}
	if defaultModel == "" {
		defaultModel = "claude-3-5-sonnet-20241022"
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		client:       &client,
		defaultModel: defaultModel,
	}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// GenerateText sends the prompt to the messages endpoint and returns the
// first text block of the response.
func (p *AnthropicProvider) GenerateText(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	system := opts.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", &ProviderCallError{Provider: p.Name(), Err: err}
	}
	if len(resp.Content) == 0 {
		return "", &ProviderCallError{Provider: p.Name(), Err: fmt.Errorf("no content blocks in response")}
	}

	text := strings.TrimSpace(resp.Content[0].Text)
	if text == "" {
		return "", &ProviderCallError{Provider: p.Name(), Err: fmt.Errorf("empty completion text")}
	}
	return text, nil
}
