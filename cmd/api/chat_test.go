package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	analysis "github.com/zhouzirui/charbot/internal/analysis/emotion"
	"github.com/zhouzirui/charbot/internal/model/chat"
	"github.com/zhouzirui/charbot/internal/model/persona"
	chatService "github.com/zhouzirui/charbot/internal/service/chat"
	"github.com/zhouzirui/charbot/internal/service/conversation"
	"github.com/zhouzirui/charbot/internal/service/emotion"
)

type scriptedCompleter struct {
	replies []string
	errs    []error
	n       int
}

func (s *scriptedCompleter) Complete(context.Context, []chat.Message, int) (string, error) {
	i := s.n
	s.n++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "...", nil
}

func newConversation(c conversation.Completer) *conversation.Service {
	moods := emotion.NewServiceWithScorer(analysis.ScorerFunc(func(string) float64 { return 0.7 }))
	return conversation.NewService(chatService.NewService(), c, moods, conversation.Config{})
}

func TestREPLConversation(t *testing.T) {
	convo := newConversation(&scriptedCompleter{replies: []string{"Welcome!", "Two."}})
	in := strings.NewReader("what is 1+1?\n/quit\n")
	var out bytes.Buffer

	cfg := persona.Config{Name: "Ada", Gender: persona.Female, Expertise: persona.Education, Mood: persona.Calm}
	if err := runREPL(context.Background(), convo, cfg, persona.VariantMood, in, &out); err != nil {
		t.Fatalf("runREPL err: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Ada: Welcome!", "[mood: Excited]", conversation.PendingText, "Ada: Two."} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestREPLReportsFailures(t *testing.T) {
	convo := newConversation(&scriptedCompleter{errs: []error{errors.New("no route to host")}})
	in := strings.NewReader("hello\n")
	var out bytes.Buffer

	if err := runREPL(context.Background(), convo, persona.Default(), persona.VariantTone, in, &out); err != nil {
		t.Fatalf("runREPL err: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "error: failed to generate the opening message") {
		t.Fatalf("expected opening failure in output:\n%s", got)
	}
	if !strings.Contains(got, "Harsvardhan: ...") {
		t.Fatalf("session should still accept turns after a failed opening:\n%s", got)
	}
}
