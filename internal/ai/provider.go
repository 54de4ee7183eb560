// Package ai talks to hosted language models.
package ai

import (
	"context"

	"github.com/nyaya-ai/nyaya/internal/errors"
)

var (
	// ErrUpstreamUnavailable is returned when the completion API can't be reached or fails.
	ErrUpstreamUnavailable = errors.NewSentinel("upstream unavailable")
	// ErrEmptyCompletion is returned when the completion API answers without any text.
	ErrEmptyCompletion = errors.NewSentinel("empty completion")
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for a chat completion. An empty Model uses the provider default.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	// JSONMode asks the model to answer with a single JSON object where supported.
	JSONMode bool
}

type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
	InputTokens  int
	OutputTokens int
}

// Provider is a chat completion API.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}

// Streamer is implemented by providers that can stream the completion as it is generated.
type Streamer interface {
	// Stream calls onDelta for every chunk of generated text. Returning an error from onDelta aborts the stream.
	Stream(ctx context.Context, req CompletionRequest, onDelta func(delta string) error) error
}

// DefaultMaxTokens is used when the request doesn't set MaxTokens.
const DefaultMaxTokens = 2000

func maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return DefaultMaxTokens
}

// Disabled is a Provider for deployments without a language model. Every call fails with ErrUpstreamUnavailable.
type Disabled struct{}

func (Disabled) Name() string {
	return "none"
}

func (Disabled) Complete(_ context.Context, _ CompletionRequest) (*CompletionResponse, error) {
	return nil, errors.Wrap(ErrUpstreamUnavailable, "no language model configured")
}
