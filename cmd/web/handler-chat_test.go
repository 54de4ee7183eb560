package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/nyaya-ai/nyaya/internal/e2etest"
	"github.com/stretchr/testify/require"
)

func TestAwarenessChat(t *testing.T) {
	t.Parallel()
	server := startServer(t, nil)
	client := server.Client()

	var reply struct {
		Success   bool   `json:"success"`
		Response  string `json:"response"`
		Timestamp string `json:"timestamp"`
	}
	doJSON(t, client, http.MethodPost, "/api/awareness-chat",
		map[string]string{"message": "How do I file an FIR?"}, nil, http.StatusOK, &reply)
	require.True(t, reply.Success)
	require.Equal(t, chatReply, reply.Response)
	require.NotEmpty(t, reply.Timestamp)

	var failed errorResponse
	doJSON(t, client, http.MethodPost, "/api/awareness-chat", map[string]string{"message": " "}, nil,
		http.StatusBadRequest, &failed)
	require.Equal(t, "message", failed.Field)
}

func TestAwarenessChat_UpstreamDown(t *testing.T) {
	t.Parallel()
	server := startServer(t, map[string]string{"NYAYA_AI_PROVIDER": "none"})

	var reply struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	doJSON(t, server.Client(), http.MethodPost, "/api/awareness-chat",
		map[string]string{"message": "How do I file an FIR?"}, nil, http.StatusBadGateway, &reply)
	require.False(t, reply.Success)
	require.Contains(t, reply.Message, "nearest police station")
}

func TestChatStream(t *testing.T) {
	t.Parallel()
	server := startServer(t, nil)
	client := server.Client()

	var started struct {
		StreamID string `json:"streamId"`
	}
	doJSON(t, client, http.MethodPost, "/api/awareness-chat/streams",
		map[string]string{"message": "How do I file an FIR?"}, nil, http.StatusAccepted, &started)
	require.NotEmpty(t, started.StreamID)
	streamPath := "/api/awareness-chat/streams/" + started.StreamID

	// Only the session that started the stream can read it.
	other, err := e2etest.NewClient(server.URL())
	require.NoError(t, err)
	doJSON(t, other, http.MethodGet, streamPath, nil, nil, http.StatusNotFound, nil)

	resp, err := client.Do(t.Context(), http.MethodGet, streamPath, nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	body := string(resp.Body)
	require.Equal(t, len(streamChunks), strings.Count(body, "event: delta"))
	for _, chunk := range streamChunks {
		require.Contains(t, body, chunk)
	}
	require.True(t, strings.HasSuffix(body, "event: done\ndata: {}\n\n"))

	// A finished stream is not replayed.
	doJSON(t, client, http.MethodGet, streamPath, nil, nil, http.StatusGone, nil)
}

func TestChatStream_UpstreamDown(t *testing.T) {
	t.Parallel()
	server := startServer(t, map[string]string{"NYAYA_AI_PROVIDER": "none"})
	client := server.Client()

	var started struct {
		StreamID string `json:"streamId"`
	}
	doJSON(t, client, http.MethodPost, "/api/awareness-chat/streams",
		map[string]string{"message": "How do I file an FIR?"}, nil, http.StatusAccepted, &started)

	resp, err := client.Do(t.Context(), http.MethodGet, "/api/awareness-chat/streams/"+started.StreamID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(resp.Body), "event: error")
	require.Contains(t, string(resp.Body), "event: done")
}

func TestSectionsAndLawPredictor(t *testing.T) {
	t.Parallel()
	server := startServer(t, map[string]string{"NYAYA_AI_PROVIDER": "none"})
	client := server.Client()

	var found sectionsResponse
	doJSON(t, client, http.MethodGet, "/api/sections?q=theft", nil, nil, http.StatusOK, &found)
	numbers := make([]string, 0, len(found.Sections))
	for _, s := range found.Sections {
		numbers = append(numbers, s.SectionNumber)
	}
	require.Contains(t, numbers, "Section 303")

	var one struct {
		Section struct {
			SectionNumber string `json:"sectionNumber"`
			Title         string `json:"title"`
		} `json:"section"`
	}
	doJSON(t, client, http.MethodGet, "/api/sections/303", nil, nil, http.StatusOK, &one)
	require.Equal(t, "Section 303", one.Section.SectionNumber)
	doJSON(t, client, http.MethodGet, "/api/sections/Section%20303", nil, nil, http.StatusOK, &one)
	require.Equal(t, "Section 303", one.Section.SectionNumber)
	doJSON(t, client, http.MethodGet, "/api/sections/9999", nil, nil, http.StatusNotFound, nil)

	var matches []lawMatch
	doJSON(t, client, http.MethodPost, "/api/laws/predict",
		map[string]string{"complaint": "He stole my phone and ran"}, nil, http.StatusOK, &matches)
	require.NotEmpty(t, matches)
	require.Equal(t, "Section 303", matches[0].Section)
	require.Equal(t, 85, matches[0].MatchPercentage)
}
