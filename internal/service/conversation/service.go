package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zhouzirui/charbot/internal/model/chat"
	"github.com/zhouzirui/charbot/internal/model/persona"
	chatService "github.com/zhouzirui/charbot/internal/service/chat"
	"github.com/zhouzirui/charbot/internal/service/emotion"
	"github.com/zhouzirui/charbot/internal/service/prompt"
)

// Completer is the remote completion call.
type Completer interface {
	Complete(ctx context.Context, messages []chat.Message, maxTokens int) (string, error)
}

// MoodResolver picks the mood of a turn.
type MoodResolver interface {
	Resolve(override, text string) (emotion.Guidance, error)
}

// Config tunes the conversation flow.
type Config struct {
	OpeningMaxTokens int
	TurnMaxTokens    int
	// PacingDelay is waited after the pending placeholder is shown and
	// before the reply is requested.
	PacingDelay time.Duration
}

// DefaultConfig matches the behaviour users expect out of the box.
func DefaultConfig() Config {
	return Config{
		OpeningMaxTokens: prompt.OpeningMaxTokens,
		TurnMaxTokens:    prompt.TurnMaxTokens,
		PacingDelay:      2 * time.Second,
	}
}

// Service drives the conversation lifecycle on top of the session store.
type Service struct {
	store     *chatService.Service
	completer Completer
	moods     MoodResolver
	cfg       Config
	locks     *keyedMutex
}

// NewService wires the conversation flow. Zero token caps fall back to the
// defaults.
func NewService(store *chatService.Service, completer Completer, moods MoodResolver, cfg Config) *Service {
	if cfg.OpeningMaxTokens <= 0 {
		cfg.OpeningMaxTokens = prompt.OpeningMaxTokens
	}
	if cfg.TurnMaxTokens <= 0 {
		cfg.TurnMaxTokens = prompt.TurnMaxTokens
	}
	return &Service{
		store:     store,
		completer: completer,
		moods:     moods,
		cfg:       cfg,
		locks:     newKeyedMutex(),
	}
}

// StartResult is the state after a start. Opening is nil when the opening
// request failed.
type StartResult struct {
	Session chat.Session  `json:"session"`
	Opening *chat.Message `json:"opening,omitempty"`
}

// Start (re)starts the conversation with a new persona. The transcript is
// always emptied before the opening message is requested, so restarts never
// accumulate history.
func (s *Service) Start(ctx context.Context, sessionID string, cfg persona.Config, variant persona.Variant, emit Emitter) (StartResult, error) {
	cfg, err := cfg.Normalize(variant)
	if err != nil {
		return StartResult{}, err
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.store.Reset(ctx, sessionID, cfg, variant)
	if err != nil {
		return StartResult{}, err
	}
	emit.emit(Event{Type: EventStart, SessionID: sessionID, Content: cfg.Name})
	log.Printf("[chat] session=%s started persona=%s variant=%s", sessionID, cfg.Name, variant)

	reply, err := s.completer.Complete(ctx, prompt.OpeningMessages(cfg), s.cfg.OpeningMaxTokens)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = ErrEmptyReply
	}
	if err != nil {
		log.Printf("[chat] session=%s opening failed: %v", sessionID, err)
		openingErr := &OpeningError{Err: err}
		emit.emit(Event{Type: EventError, SessionID: sessionID, Error: openingErr.Error()})
		return StartResult{Session: session}, openingErr
	}

	opening, err := s.store.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Role:      chat.RoleAssistant,
		Content:   strings.TrimSpace(reply),
	})
	if err != nil {
		return StartResult{Session: session}, err
	}
	emit.emit(Event{Type: EventMessage, SessionID: sessionID, Message: &opening, Content: opening.Content})

	return StartResult{Session: session, Opening: &opening}, nil
}

// TurnRequest is one user message. MoodOverride is a mood name, "None" or
// empty; it only matters in the mood variant.
type TurnRequest struct {
	Message      string `json:"message"`
	MoodOverride string `json:"moodOverride,omitempty"`
}

// TurnResult is what a turn recorded. Reply is nil when the turn failed.
type TurnResult struct {
	User  chat.Message      `json:"user"`
	Reply *chat.Message     `json:"reply,omitempty"`
	Mood  *emotion.Guidance `json:"mood,omitempty"`
}

// Send records the user's message, re-classifies the mood when the session
// is mood aware, and requests the reply. A successful turn appends two
// messages; a failed one appends only the user's.
func (s *Service) Send(ctx context.Context, sessionID string, req TurnRequest, emit Emitter) (TurnResult, error) {
	text := req.Message
	if strings.TrimSpace(text) == "" {
		return TurnResult{}, ErrEmptyMessage
	}
	if err := validateOverride(req.MoodOverride); err != nil {
		return TurnResult{}, err
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return TurnResult{}, err
	}
	if !session.Started {
		return TurnResult{}, ErrNotStarted
	}

	user, err := s.store.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Role:      chat.RoleUser,
		Content:   text,
	})
	if err != nil {
		return TurnResult{}, err
	}
	result := TurnResult{User: user}
	emit.emit(Event{Type: EventUser, SessionID: sessionID, Message: &user, Content: user.Content})

	var mood persona.Mood
	if session.MoodAware() {
		guidance, err := s.moods.Resolve(req.MoodOverride, text)
		if err != nil {
			return result, err
		}
		if err := s.store.SetMood(ctx, sessionID, guidance.Mood); err != nil {
			return result, err
		}
		mood = guidance.Mood
		result.Mood = &guidance
		emit.emit(Event{Type: EventMood, SessionID: sessionID, Mood: &guidance, Content: string(guidance.Mood)})
	}

	emit.emit(Event{Type: EventPending, SessionID: sessionID, Content: PendingText})

	reply, err := s.generateReply(ctx, session, mood)
	if err != nil {
		log.Printf("[chat] session=%s turn failed: %v", sessionID, err)
		turnErr := &TurnError{Err: err}
		emit.emit(Event{Type: EventClear, SessionID: sessionID})
		emit.emit(Event{Type: EventError, SessionID: sessionID, Error: turnErr.Error()})
		return result, turnErr
	}

	assistant, err := s.store.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Role:      chat.RoleAssistant,
		Content:   reply,
		Mood:      string(mood),
	})
	if err != nil {
		return result, err
	}
	result.Reply = &assistant
	emit.emit(Event{Type: EventMessage, SessionID: sessionID, Message: &assistant, Content: assistant.Content})

	return result, nil
}

func (s *Service) generateReply(ctx context.Context, session chat.Session, mood persona.Mood) (string, error) {
	if err := pause(ctx, s.cfg.PacingDelay); err != nil {
		return "", err
	}

	transcript, err := s.store.LoadTranscript(ctx, session.ID)
	if err != nil {
		return "", err
	}

	reply, err := s.completer.Complete(ctx, prompt.TurnMessages(session.Persona, mood, transcript), s.cfg.TurnMaxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// Session returns the session state together with its transcript.
func (s *Service) Session(ctx context.Context, sessionID string) (chat.Session, []chat.Message, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return chat.Session{}, nil, err
	}
	transcript, err := s.store.LoadTranscript(ctx, sessionID)
	if err != nil {
		return chat.Session{}, nil, err
	}
	return session, transcript, nil
}

// CreateSession provisions a new, not yet started session.
func (s *Service) CreateSession(ctx context.Context) (chat.Session, error) {
	return s.store.CreateSession(ctx)
}

func validateOverride(override string) error {
	override = strings.TrimSpace(override)
	if override == "" || strings.EqualFold(override, persona.NoOverride) {
		return nil
	}
	if _, err := persona.ParseMood(override); err != nil {
		return fmt.Errorf("mood override: %w", err)
	}
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
