// Package app assembles the services behind the HTTP server and the
// terminal client.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/zhouzirui/charbot/internal/config"
	"github.com/zhouzirui/charbot/internal/llm"
	"github.com/zhouzirui/charbot/internal/model/persona"
	"github.com/zhouzirui/charbot/internal/scheduler"
	"github.com/zhouzirui/charbot/internal/service/ai"
	chatService "github.com/zhouzirui/charbot/internal/service/chat"
	"github.com/zhouzirui/charbot/internal/service/conversation"
	"github.com/zhouzirui/charbot/internal/service/emotion"
)

// App holds the wired services.
type App struct {
	Config        *config.Config
	Personas      persona.Store
	Sessions      *chatService.Service
	Conversations *conversation.Service
	Janitor       *scheduler.Janitor
}

// New wires every service from cfg. The completion client is created but
// not contacted.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	presets := persona.Seed()
	if cfg.Persona.PresetsPath != "" {
		loaded, err := persona.LoadPresets(cfg.Persona.PresetsPath)
		if err != nil {
			return nil, err
		}
		presets = loaded
		log.Printf("[app] loaded %d persona presets from %s", len(presets), cfg.Persona.PresetsPath)
	}
	personas := persona.NewMemoryStore(presets)

	chatModel, err := llm.NewChatModel(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise %s client: %w", cfg.AI.Provider, err)
	}
	aiService, err := ai.NewService(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	log.Printf("[app] completion model %s via %s", cfg.AI.Model, cfg.AI.Provider)

	moods, err := emotion.NewService(emotion.Config{Analyzer: cfg.Sentiment.Analyzer})
	if err != nil {
		return nil, err
	}

	sessions := chatService.NewService()
	conversations := conversation.NewService(sessions, aiService, moods, conversation.Config{
		OpeningMaxTokens: cfg.AI.OpeningMaxTokens,
		TurnMaxTokens:    cfg.AI.TurnMaxTokens,
		PacingDelay:      cfg.Session.PacingDelay,
	})

	janitor, err := scheduler.NewJanitor(sessions, cfg.Session.SweepSchedule, cfg.Session.IdleTTL)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:        cfg,
		Personas:      personas,
		Sessions:      sessions,
		Conversations: conversations,
		Janitor:       janitor,
	}, nil
}
