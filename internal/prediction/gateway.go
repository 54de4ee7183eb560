// Package prediction suggests legal sections for a complaint using a language model with a keyword fallback.
package prediction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nyaya-ai/nyaya/internal/ai"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/fallback"
	"github.com/nyaya-ai/nyaya/internal/models"
)

// Config tunes the upstream call.
type Config struct {
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
	// Cap is the maximum number of predictions returned on every path.
	Cap int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Model:       "",
		Timeout:     10 * time.Second, //nolint:mnd // 10 seconds
		Temperature: 0.3,              //nolint:mnd // low temperature for consistent answers
		MaxTokens:   2000,             //nolint:mnd // room for 5 sections
		Cap:         5,                //nolint:mnd // 5 sections
	}
}

// Incident is optional context that sharpens the prompt.
type Incident struct {
	IncidentType string
	Location     string
}

// Result holds the suggested sections. Predictions is never empty.
type Result struct {
	Predictions []models.AIPrediction
	// Fallback is set when the keyword matcher produced the predictions because the model failed.
	Fallback bool
}

type Gateway struct {
	provider ai.Provider
	matcher  *fallback.Matcher
	cfg      Config
	logger   *slog.Logger
}

func NewGateway(provider ai.Provider, matcher *fallback.Matcher, cfg Config, logger *slog.Logger) *Gateway {
	return &Gateway{
		provider: provider,
		matcher:  matcher,
		cfg:      cfg,
		logger:   logger.With(slog.String("source", "prediction"), slog.String("provider", provider.Name())),
	}
}

// PredictSections suggests legal sections for complaintText.
//
// Only empty input is an error. Upstream failures and unparsable replies are logged and answered with the keyword
// fallback so the officer always gets at least one suggestion.
func (g *Gateway) PredictSections(ctx context.Context, complaintText string, incident Incident) (Result, error) {
	if strings.TrimSpace(complaintText) == "" {
		return Result{}, models.NewValidationError("complaintText", "is required")
	}

	predictions, err := g.predictWithModel(ctx, complaintText, incident)
	if err != nil {
		g.logger.LogAttrs(ctx, slog.LevelWarn, "using keyword fallback", errors.SlogError(err))
		return Result{
			Predictions: g.matcher.Predict(complaintText, g.cfg.Cap),
			Fallback:    true,
		}, nil
	}
	return Result{Predictions: predictions, Fallback: false}, nil
}

func (g *Gateway) predictWithModel(
	ctx context.Context,
	complaintText string,
	incident Incident,
) ([]models.AIPrediction, error) {
	var (
		resp    *ai.CompletionResponse
		entries []map[string]any
		err     error
		start   = time.Now()
	)

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	if resp, err = g.provider.Complete(ctx, ai.CompletionRequest{
		Model:       g.cfg.Model,
		Messages:    buildMessages(complaintText, incident),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		JSONMode:    true,
	}); err != nil {
		return nil, errors.Wrap(err, "complete", slog.Duration("elapsed", time.Since(start)))
	}

	if entries, err = parseReply(resp.Content); err != nil {
		return nil, errors.Wrap(err, "parse reply", slog.Int("reply_length", len(resp.Content)))
	}

	if g.cfg.Cap > 0 && len(entries) > g.cfg.Cap {
		entries = entries[:g.cfg.Cap]
	}
	predictions := make([]models.AIPrediction, 0, len(entries))
	for i, entry := range entries {
		predictions = append(predictions, normalize(i+1, entry))
	}

	g.logger.LogAttrs(ctx, slog.LevelInfo, "predicted sections",
		slog.Int("count", len(predictions)),
		slog.Int("output_tokens", resp.OutputTokens),
		slog.Duration("elapsed", time.Since(start)))
	return predictions, nil
}
