package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/charbot/internal/handler/chat"
	"github.com/zhouzirui/charbot/internal/handler/persona"
	"github.com/zhouzirui/charbot/internal/handler/stream"
	"github.com/zhouzirui/charbot/internal/handler/ui"
	"github.com/zhouzirui/charbot/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/charbot/internal/middleware"
	personaModel "github.com/zhouzirui/charbot/internal/model/persona"
	"github.com/zhouzirui/charbot/internal/service/conversation"
	"github.com/zhouzirui/charbot/pkg/utils"
)

// NewRouter wires HTTP routes to the conversation service.
func NewRouter(personas personaModel.Store, conversations *conversation.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if page, err := ui.New(personas); err != nil {
		log.Printf("[ui] page disabled: %v", err)
	} else {
		page.RegisterRoutes(r)
	}

	r.Route("/api", func(api chi.Router) {
		persona.New(personas).RegisterRoutes(api)
		chat.New(conversations, personas).RegisterRoutes(api)
		stream.New(conversations).RegisterRoutes(api)
		ws.New(conversations, personas).RegisterRoutes(api)
	})

	return r
}
