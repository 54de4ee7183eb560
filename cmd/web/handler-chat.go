package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyaya-ai/nyaya/internal/ai"
	"github.com/nyaya-ai/nyaya/internal/broker"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

const awarenessSystemPrompt = `You are a helpful legal awareness assistant for Indian citizens. Your role is to:
1. Provide basic information about legal rights and procedures
2. Explain FIR filing processes in simple terms
3. Give general guidance on common legal issues under the Bharatiya Nyaya Sanhita
4. Always recommend consulting a qualified lawyer for specific legal advice
5. Provide emergency helpline numbers when relevant (112 for emergencies, 1091 women helpline, 1930 cyber crime)
6. Keep responses simple, clear and actionable

Always include a short disclaimer that this is general information and not legal advice.`

const chatApology = "I apologize, but I'm having trouble processing your request right now. Please try again later " +
	"or contact your nearest police station for immediate assistance."

const (
	chatTemperature   = 0.7
	chatMaxTokens     = 500
	chatStreamTimeout = 2 * time.Minute
	// chatStreamBuffer lets the producer run ahead of a slow browser.
	chatStreamBuffer     = 64
	chatStreamSessionKey = "chatStreamID"
)

type chatRequest struct {
	Message string `json:"message"`
}

// chatEvent is one chunk of a streamed reply. Err is set on the last event of a failed stream.
type chatEvent struct {
	Delta string
	Err   error
}

func (app *application) completionRequest(message string) ai.CompletionRequest {
	return ai.CompletionRequest{
		Model: app.cfg.AIModel,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: awarenessSystemPrompt},
			{Role: ai.RoleUser, Content: message},
		},
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
		JSONMode:    false,
	}
}

func decodeChatMessage(r *http.Request) (string, error) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", models.NewValidationError("message", "is required")
	}
	return message, nil
}

// awarenessChat answers a citizen's legal question in one response.
func (app *application) awarenessChat(w http.ResponseWriter, r *http.Request) {
	var (
		message string
		resp    *ai.CompletionResponse
		err     error
	)
	if message, err = decodeChatMessage(r); err != nil {
		app.handleError(w, r, err)
		return
	}
	if resp, err = app.chat.Complete(r.Context(), app.completionRequest(message)); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "awareness chat failed", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   "assistant unavailable",
			"message": chatApology,
		})
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"success":   true,
		"response":  resp.Content,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// startChatStream starts generating the reply in the background. The browser then reads it from serveChatStream.
func (app *application) startChatStream(w http.ResponseWriter, r *http.Request) {
	message, err := decodeChatMessage(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	id := uuid.NewString()
	events := make(chan chatEvent, chatStreamBuffer)
	claimed := app.chatStreams.Publish(r.Context(), id, events)
	app.sessionManager.Put(r.Context(), chatStreamSessionKey, id)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), chatStreamTimeout)
	go func() {
		defer cancel()
		app.produceChat(ctx, id, events, claimed, app.completionRequest(message))
	}()

	app.writeJSON(w, r, http.StatusAccepted, map[string]any{"success": true, "streamId": id})
}

func (app *application) produceChat(
	ctx context.Context,
	id string,
	events chan chatEvent,
	claimed <-chan struct{},
	req ai.CompletionRequest,
) {
	defer func() {
		// The browser usually subscribes after a short reply is already complete.
		select {
		case <-claimed:
		case <-ctx.Done():
		}
		unpublishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		app.chatStreams.Unpublish(unpublishCtx, id)
	}()
	defer close(events)

	send := func(event chatEvent) error {
		select {
		case events <- event:
			return nil
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "send chat event")
		}
	}

	var err error
	if streamer, ok := app.chat.(ai.Streamer); ok {
		err = streamer.Stream(ctx, req, func(delta string) error {
			return send(chatEvent{Delta: delta, Err: nil})
		})
	} else {
		// Providers without streaming answer in a single chunk.
		var resp *ai.CompletionResponse
		if resp, err = app.chat.Complete(ctx, req); err == nil {
			err = send(chatEvent{Delta: resp.Content, Err: nil})
		}
	}
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "chat stream failed", slog.String("stream_id", id), errors.SlogError(err))
		_ = send(chatEvent{Delta: "", Err: err})
	}
}

// chatStreamOwner returns the stream id stored in the caller's session. The stream route skips LoadAndSave so the
// session is loaded read-only here.
func (app *application) chatStreamOwner(r *http.Request) string {
	cookie, err := r.Cookie(app.sessionManager.Cookie.Name)
	if err != nil {
		return ""
	}
	ctx, err := app.sessionManager.Load(r.Context(), cookie.Value)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "load session", errors.SlogError(err))
		return ""
	}
	return app.sessionManager.GetString(ctx, chatStreamSessionKey)
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return errors.Wrap(err, "write event")
	}
	if err = rc.Flush(); err != nil {
		return errors.Wrap(err, "flush event")
	}
	return nil
}

// serveChatStream relays a reply started with startChatStream as server-sent events. Only the session that started
// the stream may read it and only once.
func (app *application) serveChatStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if app.chatStreamOwner(r) != id {
		app.notFound(w, r)
		return
	}
	events, ok := app.chatStreams.Subscribe(r.Context(), id)
	if !ok {
		app.clientError(w, r, http.StatusGone, "stream already finished", "",
			errors.New("stream unavailable", slog.String("stream_id", id)))
		return
	}

	rc := http.NewResponseController(w)
	// The server write timeout is too short for a long reply.
	_ = rc.SetWriteDeadline(time.Now().Add(chatStreamTimeout))
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	var err error
	for {
		select {
		case event, open := <-events:
			switch {
			case !open:
				err = writeEvent(w, rc, "done", map[string]any{})
			case event.Err != nil:
				err = writeEvent(w, rc, "error", map[string]string{"message": chatApology})
			default:
				err = writeEvent(w, rc, "delta", map[string]string{"text": event.Delta})
			}
			if err != nil {
				app.logger.LogAttrs(r.Context(), slog.LevelDebug, "chat stream client gone", errors.SlogError(err))
				broker.Discard(events)
				return
			}
			if !open {
				return
			}
		case <-r.Context().Done():
			broker.Discard(events)
			return
		}
	}
}
