package main

import (
	"net/http"
	"time"

	"github.com/justinas/alice"
)

func (app *application) routes(defaultTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	public := alice.New(app.sessionManager.LoadAndSave, app.authenticate)
	officer := public.Append(app.requireOfficer)
	// Streaming responses must not be buffered by the session middleware or cut off by the timeout handler.
	stream := alice.New(app.serverSentEventMiddleware)

	mux.HandleFunc("GET /api/healthy", app.healthy)

	// Citizen portal.
	mux.Handle("GET /api/sections", public.ThenFunc(app.searchSections))
	mux.Handle("GET /api/sections/{number}", public.ThenFunc(app.getSection))
	mux.Handle("POST /api/laws/predict", public.ThenFunc(app.predictLaws))
	mux.Handle("POST /api/awareness-chat", public.ThenFunc(app.awarenessChat))
	mux.Handle("POST /api/awareness-chat/streams", public.ThenFunc(app.startChatStream))
	mux.Handle("GET /api/awareness-chat/streams/{id}", stream.ThenFunc(app.serveChatStream))

	// Officer login.
	mux.Handle("POST /api/police/login", public.ThenFunc(app.login))
	mux.Handle("POST /api/police/logout", public.ThenFunc(app.logout))
	mux.Handle("GET /api/police/me", officer.ThenFunc(app.me))

	// Police console.
	mux.Handle("GET /api/police/dashboard/stats", officer.ThenFunc(app.dashboardStats))
	mux.Handle("POST /api/ai-section-predict", officer.ThenFunc(app.predictSections))

	mux.Handle("POST /api/drafts", officer.ThenFunc(app.createDraft))
	mux.Handle("GET /api/drafts/{id}", officer.ThenFunc(app.getDraft))
	mux.Handle("POST /api/drafts/{id}/predictions/{pid}/accept", officer.ThenFunc(app.acceptPrediction))
	mux.Handle("POST /api/drafts/{id}/predictions/{pid}/reject", officer.ThenFunc(app.rejectPrediction))
	mux.Handle("POST /api/drafts/{id}/predictions/{pid}/open-correction", officer.ThenFunc(app.openCorrection))
	mux.Handle("POST /api/drafts/{id}/predictions/{pid}/correct", officer.ThenFunc(app.correctPrediction))
	mux.Handle("POST /api/drafts/{id}/accept-all", officer.ThenFunc(app.acceptAll))
	mux.Handle("POST /api/drafts/{id}/manual", officer.ThenFunc(app.addManual))
	mux.Handle("DELETE /api/drafts/{id}/manual/{pid}", officer.ThenFunc(app.removeManual))

	mux.Handle("POST /api/save-fir", officer.ThenFunc(app.saveFIR))
	mux.Handle("POST /api/firs", officer.ThenFunc(app.createFIR))
	mux.Handle("GET /api/firs", officer.ThenFunc(app.listFIRs))
	mux.Handle("GET /api/firs/register.xlsx", officer.ThenFunc(app.exportRegister))
	mux.Handle("GET /api/firs/{id}", officer.ThenFunc(app.getFIR))
	mux.Handle("PATCH /api/firs/{id}/status", officer.ThenFunc(app.updateFIRStatus))
	mux.Handle("GET /api/firs/{id}/pdf", officer.ThenFunc(app.firPDF))

	mux.Handle("POST /api/feedback", officer.ThenFunc(app.createFeedback))
	mux.Handle("GET /api/feedback", officer.ThenFunc(app.listFeedback))

	mux.Handle("/", http.HandlerFunc(app.notFound))

	common := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	timed := timeoutHandler(mux, defaultTimeout)
	return common.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isStreamRequest(r) {
			mux.ServeHTTP(w, r)
			return
		}
		timed.ServeHTTP(w, r)
	}))
}
