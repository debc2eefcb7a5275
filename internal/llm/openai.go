package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider on top of the OpenAI chat completions API.
type OpenAIProvider struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAIProvider creates an OpenAI-backed provider. It returns
// ErrUnconfigured when no API key is supplied so callers can skip the
// provider instead of attempting doomed calls.
func NewOpenAIProvider(apiKey, defaultModel string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrUnconfigured
	}
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client:       &client,
		defaultModel: defaultModel,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// GenerateText sends the prompt to the chat completions endpoint and returns
// the first choice's text.
func (p *OpenAIProvider) GenerateText(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	system := opts.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &ProviderCallError{Provider: p.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderCallError{Provider: p.Name(), Err: fmt.Errorf("no choices in response")}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &ProviderCallError{Provider: p.Name(), Err: fmt.Errorf("empty completion text")}
	}
	return text, nil
}
