package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/nyaya-ai/nyaya/internal/errors"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicProvider implements Provider using the Anthropic Messages API.
//
// The Messages API has no JSON mode. JSONMode is expressed as an instruction in the system prompt instead.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider. baseURL is optional.
func NewAnthropicProvider(apiKey string, baseURL string, model string) *AnthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	var (
		system   []string
		messages []anthropic.MessageParam
	)
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	if req.JSONMode {
		system = append(system, "Respond with a single JSON object and nothing else.")
	}

	params := anthropic.MessageNewParams{ //nolint:exhaustruct // optional params left unset
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens(req)),
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}} //nolint:exhaustruct // text only
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "create message", slog.String("provider", p.Name())),
			ErrUpstreamUnavailable)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return nil, errors.Wrap(ErrEmptyCompletion, "read message", slog.String("provider", p.Name()))
	}
	return &CompletionResponse{
		Content:      content.String(),
		Model:        string(message.Model),
		FinishReason: string(message.StopReason),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
