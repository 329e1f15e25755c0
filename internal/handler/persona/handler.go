package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/charbot/internal/model/persona"
	"github.com/zhouzirui/charbot/pkg/utils"
)

// Handler serves the persona presets and the selectable attribute values.
type Handler struct {
	personas persona.Store
}

// New creates a persona handler.
func New(personas persona.Store) *Handler {
	return &Handler{
		personas: personas,
	}
}

// RegisterRoutes mounts the persona routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
	r.Get("/options", h.handleOptions)
}

// Options lists every value the sidebar controls accept.
type Options struct {
	Genders       []persona.Gender    `json:"genders"`
	Expertises    []persona.Expertise `json:"expertises"`
	Tones         []persona.Tone      `json:"tones"`
	Moods         []persona.Mood      `json:"moods"`
	MoodOverrides []string            `json:"moodOverrides"`
	Variants      []persona.Variant   `json:"variants"`
	Defaults      persona.Config      `json:"defaults"`
	Presets       []persona.Preset    `json:"presets,omitempty"`
}

// CurrentOptions is the option set exposed by the API.
func CurrentOptions() Options {
	return Options{
		Genders:       persona.Genders(),
		Expertises:    persona.Expertises(),
		Tones:         persona.Tones(),
		Moods:         persona.Moods(),
		MoodOverrides: persona.MoodOverrides(),
		Variants:      persona.Variants(),
		Defaults:      persona.Default(),
	}
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts := CurrentOptions()
	opts.Presets = h.personas.List()
	utils.RespondJSON(w, http.StatusOK, opts)
}
