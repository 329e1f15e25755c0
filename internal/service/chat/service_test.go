package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zhouzirui/charbot/internal/model/chat"
	"github.com/zhouzirui/charbot/internal/model/persona"
)

func TestServiceGetSession(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}
	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if got.Started {
		t.Fatal("new session must not be started")
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := NewService()

	if _, err := svc.GetSession(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceResetClearsTranscript(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx)

	for _, content := range []string{"hello", "hi", "how are you"} {
		if _, err := svc.SaveMessage(ctx, chat.Message{SessionID: session.ID, Role: chat.RoleUser, Content: content}); err != nil {
			t.Fatalf("SaveMessage err: %v", err)
		}
	}
	if err := svc.SetMood(ctx, session.ID, persona.Agitated); err != nil {
		t.Fatalf("SetMood err: %v", err)
	}

	reset, err := svc.Reset(ctx, session.ID, persona.Default(), persona.VariantMood)
	if err != nil {
		t.Fatalf("Reset err: %v", err)
	}
	if !reset.Started || reset.Mood != persona.Calm || reset.Variant != persona.VariantMood {
		t.Fatalf("unexpected state after reset: %+v", reset)
	}

	transcript, _ := svc.LoadTranscript(ctx, session.ID)
	if len(transcript) != 0 {
		t.Fatalf("expected empty transcript, got %d messages", len(transcript))
	}
}

func TestServiceSaveMessageOrderAndCopy(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx)

	first, err := svc.SaveMessage(ctx, chat.Message{SessionID: session.ID, Role: chat.RoleAssistant, Content: "Hello!"})
	if err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", first)
	}
	_, _ = svc.SaveMessage(ctx, chat.Message{SessionID: session.ID, Role: chat.RoleUser, Content: "Hi"})

	transcript, _ := svc.LoadTranscript(ctx, session.ID)
	if len(transcript) != 2 || transcript[0].Role != chat.RoleAssistant || transcript[1].Role != chat.RoleUser {
		t.Fatalf("unexpected transcript: %+v", transcript)
	}

	transcript[0].Content = "mutated"
	again, _ := svc.LoadTranscript(ctx, session.ID)
	if again[0].Content != "Hello!" {
		t.Fatal("internal state mutated via returned slice")
	}
}

func TestServiceSaveMessageValidation(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.SaveMessage(ctx, chat.Message{SessionID: "missing", Content: "x"}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	session, _ := svc.CreateSession(ctx)
	if _, err := svc.SaveMessage(ctx, chat.Message{SessionID: session.ID}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestServiceSweepIdle(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	stale, _ := svc.CreateSession(ctx)

	svc.now = func() time.Time { return base.Add(3 * time.Hour) }
	fresh, _ := svc.CreateSession(ctx)

	removed := svc.SweepIdle(ctx, base.Add(time.Hour))
	if removed != 1 {
		t.Fatalf("expected 1 session removed, got %d", removed)
	}
	if _, err := svc.GetSession(ctx, stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("stale session should be gone")
	}
	if _, err := svc.GetSession(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}
	if svc.Count() != 1 {
		t.Fatalf("expected 1 live session, got %d", svc.Count())
	}
}
