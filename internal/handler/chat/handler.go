package chat

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/charbot/internal/handler/apierr"
	"github.com/zhouzirui/charbot/internal/model/chat"
	"github.com/zhouzirui/charbot/internal/model/persona"
	"github.com/zhouzirui/charbot/internal/service/conversation"
	"github.com/zhouzirui/charbot/pkg/utils"
)

// Handler serves the request/response conversation endpoints.
type Handler struct {
	conversations *conversation.Service
	presets       persona.Store
}

// New creates a chat handler.
func New(conversations *conversation.Service, presets persona.Store) *Handler {
	return &Handler{
		conversations: conversations,
		presets:       presets,
	}
}

// RegisterRoutes mounts the session routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Post("/start", h.handleStart)
		r.Post("/messages", h.handleSendMessage)
	})
}

// StartRequest selects the persona either by preset id or field by field.
type StartRequest struct {
	PresetID string         `json:"presetId,omitempty"`
	Variant  string         `json:"variant,omitempty"`
	Persona  persona.Config `json:"persona"`
}

type startResponse struct {
	conversation.StartResult
	Error string `json:"error,omitempty"`
}

type sessionView struct {
	Session    chat.Session   `json:"session"`
	Transcript []chat.Message `json:"transcript"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.conversations.CreateSession(r.Context())
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, transcript, err := h.conversations.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, sessionView{Session: session, Transcript: transcript})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload StartRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, variant, err := ResolvePersona(h.presets, payload)
	if err != nil {
		apierr.Respond(w, err)
		return
	}

	result, err := h.conversations.Start(r.Context(), chi.URLParam(r, "sessionID"), cfg, variant, nil)
	var openingErr *conversation.OpeningError
	if errors.As(err, &openingErr) {
		// The session is started even though the greeting failed.
		utils.RespondJSON(w, apierr.Status(err), startResponse{StartResult: result, Error: err.Error()})
		return
	}
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, startResponse{StartResult: result})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload conversation.TurnRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.conversations.Send(r.Context(), chi.URLParam(r, "sessionID"), payload, nil)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// ResolvePersona turns a start request into a persona and variant. A preset
// id wins over the inline fields.
func ResolvePersona(presets persona.Store, req StartRequest) (persona.Config, persona.Variant, error) {
	if req.PresetID != "" {
		var preset persona.Preset
		ok := false
		if presets != nil {
			preset, ok = presets.FindByID(req.PresetID)
		}
		if !ok {
			return persona.Config{}, "", fmt.Errorf("%w: %q", persona.ErrUnknownPreset, req.PresetID)
		}
		return preset.Persona, preset.Variant, nil
	}

	variant, err := persona.ParseVariant(req.Variant)
	if err != nil {
		return persona.Config{}, "", err
	}
	return req.Persona, variant, nil
}
