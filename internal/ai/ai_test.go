package ai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/ai"
	"github.com/stretchr/testify/require"
)

func newOpenAIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIProvider_Complete(t *testing.T) {
	t.Parallel()
	var received map[string]any
	server := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"id":"cmpl-1","object":"chat.completion","model":"gpt-4o-mini",
"choices":[{"index":0,"message":{"role":"assistant","content":"{\"sections\":[]}"},"finish_reason":"stop"}],
"usage":{"prompt_tokens":12,"completion_tokens":4,"total_tokens":16}}`)
	})

	provider := ai.NewOpenAIProvider("test-key", server.URL+"/v1", "")
	resp, err := provider.Complete(context.Background(), ai.CompletionRequest{
		Model:       "",
		Messages:    []ai.Message{{Role: ai.RoleSystem, Content: "system"}, {Role: ai.RoleUser, Content: "hi"}},
		MaxTokens:   100,
		Temperature: 0.3,
		JSONMode:    true,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"sections":[]}`, resp.Content)
	require.Equal(t, 12, resp.InputTokens)

	require.Equal(t, "gpt-4o-mini", received["model"])
	require.Equal(t, map[string]any{"type": "json_object"}, received["response_format"])
	require.InDelta(t, 100, received["max_tokens"], 0)
}

func TestOpenAIProvider_CompleteFailure(t *testing.T) {
	t.Parallel()
	server := newOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)
	})

	provider := ai.NewOpenAIProvider("test-key", server.URL+"/v1", "gpt-4o-mini")
	_, err := provider.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	require.ErrorIs(t, err, ai.ErrUpstreamUnavailable)
}

func TestOpenAIProvider_Stream(t *testing.T) {
	t.Parallel()
	server := newOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Know ", "your ", "rights."} {
			_, _ = fmt.Fprintf(w, "data: {\"id\":\"c\",\"object\":\"chat.completion.chunk\",\"model\":\"m\","+
				"\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", chunk)
		}
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	provider := ai.NewOpenAIProvider("test-key", server.URL+"/v1", "")
	var sb strings.Builder
	err := provider.Stream(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	}, func(delta string) error {
		sb.WriteString(delta)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "Know your rights.", sb.String())
}

func TestAnthropicProvider_Complete(t *testing.T) {
	t.Parallel()
	var received map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/messages", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest",
"content":[{"type":"text","text":"{\"sections\":[]}"}],"stop_reason":"end_turn",
"usage":{"input_tokens":3,"output_tokens":5}}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	provider := ai.NewAnthropicProvider("test-key", server.URL, "")
	resp, err := provider.Complete(context.Background(), ai.CompletionRequest{
		Messages:    []ai.Message{{Role: ai.RoleSystem, Content: "system"}, {Role: ai.RoleUser, Content: "hi"}},
		MaxTokens:   500,
		Temperature: 0.7,
		JSONMode:    true,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"sections":[]}`, resp.Content)
	require.Equal(t, "end_turn", resp.FinishReason)

	require.Equal(t, "claude-3-5-haiku-latest", received["model"])
	require.InDelta(t, 500, received["max_tokens"], 0)
	system, ok := received["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
}

func TestNewProvider(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cfg      ai.Config
		wantName string
		wantErr  error
	}{
		{name: "openai", cfg: ai.Config{Provider: "openai", OpenAIAPIKey: "k"}, wantName: "openai"},
		{name: "anthropic", cfg: ai.Config{Provider: "anthropic", AnthropicAPIKey: "k"}, wantName: "anthropic"},
		{name: "none", cfg: ai.Config{Provider: "none"}, wantName: "none"},
		{name: "missing key", cfg: ai.Config{Provider: "openai"}, wantErr: ai.ErrMissingAPIKey},
		{name: "unknown", cfg: ai.Config{Provider: "gemini"}, wantErr: ai.ErrUnknownProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider, err := ai.NewProvider(tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantName, provider.Name())
		})
	}
}

func TestDisabled(t *testing.T) {
	t.Parallel()
	_, err := ai.Disabled{}.Complete(context.Background(), ai.CompletionRequest{})
	require.ErrorIs(t, err, ai.ErrUpstreamUnavailable)
}
