package ai

import (
	"context"
	"io"
	"log/slog"

	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider and Streamer using the OpenAI chat completions API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider. baseURL is optional and points the client to a compatible API.
func NewOpenAIProvider(apiKey string, baseURL string, model string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) request(req CompletionRequest, stream bool) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.model
	}
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{ //nolint:exhaustruct // plain text messages
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	apiReq := openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens(req),
		Temperature: float32(req.Temperature),
		Stream:      stream,
	}
	if req.JSONMode {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{ //nolint:exhaustruct // no schema
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return apiReq
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.request(req, false))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "create chat completion", slog.String("provider", p.Name())),
			ErrUpstreamUnavailable)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, errors.Wrap(ErrEmptyCompletion, "read chat completion", slog.String("provider", p.Name()))
	}
	return &CompletionResponse{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		FinishReason: string(resp.Choices[0].FinishReason),
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, req CompletionRequest, onDelta func(delta string) error) error {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.request(req, true))
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create chat completion stream", slog.String("provider", p.Name())),
			ErrUpstreamUnavailable)
	}
	defer stream.Close()

	for {
		var resp openai.ChatCompletionStreamResponse
		resp, err = stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Mark(errors.Wrap(err, "receive chat completion chunk"), ErrUpstreamUnavailable)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		if err = onDelta(resp.Choices[0].Delta.Content); err != nil {
			return errors.Wrap(err, "handle chat completion chunk")
		}
	}
}
