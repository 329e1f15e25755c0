package stream

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/charbot/internal/handler/apierr"
	"github.com/zhouzirui/charbot/internal/service/conversation"
	"github.com/zhouzirui/charbot/pkg/utils"
)

// Handler streams the steps of a turn as Server-Sent Events.
type Handler struct {
	conversations *conversation.Service
}

// New creates a stream handler.
func New(conversations *conversation.Service) *Handler {
	return &Handler{conversations: conversations}
}

// RegisterRoutes mounts the stream route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// handleStream runs one turn. Validation failures that happen before the
// first event are answered as plain JSON errors; once streaming has begun
// every outcome is reported in-band and the stream ends with an end event.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		utils.RespondError(w, http.StatusInternalServerError, utils.ErrStreamingUnsupported.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	query := r.URL.Query()
	req := conversation.TurnRequest{
		Message:      query.Get("message"),
		MoodOverride: query.Get("moodOverride"),
	}

	session, _, err := h.conversations.Session(r.Context(), sessionID)
	if err != nil {
		apierr.Respond(w, err)
		return
	}

	var sse *utils.SSEWriter
	emit := func(ev conversation.Event) {
		if sse == nil {
			sse, _ = utils.NewSSEWriter(w)
			sse.Send(conversation.Event{Type: conversation.EventStart, SessionID: sessionID, Content: session.Persona.Name})
		}
		sse.Send(ev)
	}

	_, err = h.conversations.Send(r.Context(), sessionID, req, emit)
	if sse == nil {
		if err != nil {
			apierr.Respond(w, err)
		}
		return
	}
	if err != nil && !conversation.IsRemoteFailure(err) {
		sse.Send(conversation.Event{Type: conversation.EventError, SessionID: sessionID, Error: err.Error()})
	}

	sse.Send(conversation.Event{Type: conversation.EventEnd, SessionID: sessionID, Finished: true})
	log.Printf("[stream] completed turn for session=%s persona=%s", sessionID, session.Persona.Name)
}
