package ai

import (
	"log/slog"

	"github.com/nyaya-ai/nyaya/internal/errors"
)

var (
	ErrUnknownProvider = errors.NewSentinel("unknown AI provider")
	ErrMissingAPIKey   = errors.NewSentinel("missing API key")
)

// Config selects and configures the completion provider.
type Config struct {
	// Provider is "openai", "anthropic" or "none".
	Provider         string
	Model            string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
}

// NewProvider creates the provider named in cfg.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.Wrap(ErrMissingAPIKey, "configure openai", slog.String("env", "OPENAI_API_KEY"))
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, errors.Wrap(ErrMissingAPIKey, "configure anthropic", slog.String("env", "ANTHROPIC_API_KEY"))
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.Model), nil
	case "none", "":
		return Disabled{}, nil
	default:
		return nil, errors.Wrap(ErrUnknownProvider, "create provider", slog.String("provider", cfg.Provider))
	}
}
