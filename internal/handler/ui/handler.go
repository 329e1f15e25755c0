// Package ui serves the single-page chat client.
package ui

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	personaHandler "github.com/zhouzirui/charbot/internal/handler/persona"
	"github.com/zhouzirui/charbot/internal/model/persona"
)

//go:embed templates/index.html
var templates embed.FS

// Handler renders the chat page.
type Handler struct {
	page []byte
}

type pageData struct {
	Title   string
	Options personaHandler.Options
	Presets []persona.Preset
}

// New renders the page once; the options never change while running.
func New(presets persona.Store) (*Handler, error) {
	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	data := pageData{Title: "Dynamic Character Chatbot", Options: personaHandler.CurrentOptions()}
	if presets != nil {
		data.Presets = presets.List()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return &Handler{page: buf.Bytes()}, nil
}

// RegisterRoutes mounts the page at the root of r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(h.page); err != nil {
		log.Printf("[ui] write page: %v", err)
	}
}
