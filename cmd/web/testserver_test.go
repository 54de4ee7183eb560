package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/e2etest"
	"github.com/stretchr/testify/require"
)

const (
	testBadge    = "KA-0001"
	testPassword = "correct horse battery staple"
)

// predictionReply is what the fake model answers to section prediction requests.
const predictionReply = `{"sections":[
{"sectionNumber":"Section 303","title":"Theft","description":"Dishonestly taking movable property.",
 "punishment":"Imprisonment up to 3 years, or fine, or both","category":"Property Offense","confidence":92},
{"sectionNumber":"115","title":"Voluntarily causing hurt","category":"Offense against body","confidence":"70%"}
]}`

const chatReply = "You can file an FIR at any police station."

var streamChunks = []string{"File an FIR ", "at the nearest police station."}

// newFakeOpenAI serves the chat completions API: JSON mode requests get predictionReply, streaming requests get
// streamChunks and everything else gets chatReply.
func newFakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Stream         bool            `json:"stream"`
			ResponseFormat json.RawMessage `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, chunk := range streamChunks {
				data, _ := json.Marshal(map[string]any{
					"id":      "chunk",
					"object":  "chat.completion.chunk",
					"model":   "gpt-4o-mini",
					"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": chunk}}},
				})
				_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
			}
			_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}
		content := chatReply
		if len(req.ResponseFormat) > 0 {
			content = predictionReply
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []any{map[string]any{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 10, "total_tokens": 20},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// startServer runs the application against an in-memory database. overrides replace the default test environment.
// The AI provider is the fake OpenAI server unless NYAYA_AI_PROVIDER is overridden.
func startServer(t *testing.T, overrides map[string]string) *e2etest.Server {
	t.Helper()
	env := map[string]string{
		"NYAYA_ADDR":           "localhost:0",
		"NYAYA_PPROF_PORT":     "",
		"NYAYA_SQLITE_URL":     ":memory:",
		"NYAYA_AI_PROVIDER":    "openai",
		"NYAYA_ADMIN_BADGE":    testBadge,
		"NYAYA_ADMIN_PASSWORD": testPassword,
		"OPENAI_API_KEY":       "test-key",
		"OPENAI_BASE_URL":      newFakeOpenAI(t).URL + "/v1",
	}
	for k, v := range overrides {
		env[k] = v
	}
	lookupEnv := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	server, err := e2etest.StartServer(t.Context(), io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return server
}

// startLoggedIn starts a server and logs its client in as the bootstrap officer.
func startLoggedIn(t *testing.T, overrides map[string]string) *e2etest.Client {
	t.Helper()
	server := startServer(t, overrides)
	client := server.Client()
	require.NoError(t, client.Login(t.Context(), testBadge, testPassword))
	return client
}

func doJSON(
	t *testing.T,
	client *e2etest.Client,
	method, path string,
	body any,
	header http.Header,
	wantStatus int,
	dst any,
) *e2etest.Response {
	t.Helper()
	resp, err := client.Do(t.Context(), method, path, body, header)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "body: %s", resp.Body)
	if dst != nil {
		require.NoError(t, resp.Decode(dst))
	}
	return resp
}

func ifMatch(version string) http.Header {
	return http.Header{"If-Match": []string{version}}
}
