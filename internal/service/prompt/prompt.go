// Package prompt builds the instructions sent to the completion model. All
// functions are pure: the same persona, mood and transcript always yield the
// same messages.
package prompt

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/charbot/internal/model/chat"
	"github.com/zhouzirui/charbot/internal/model/persona"
)

// Response budgets for the two prompt shapes.
const (
	OpeningMaxTokens = 50
	TurnMaxTokens    = 100
)

// Opening asks the model for a greeting in the persona's voice.
func Opening(p persona.Config) string {
	return fmt.Sprintf(
		"Write a short and crisp opening message for a chatbot named %s. "+
			"The chatbot uses %s pronouns. "+
			"The chatbot is an expert in %s and has a %s personality. "+
			"Keep it engaging and friendly.",
		p.Name,
		p.Gender.Pronouns(),
		strings.ToLower(string(p.Expertise)),
		strings.ToLower(p.Temperament()),
	)
}

// TurnSystem is the instruction prepended to every turn. A non-empty mood
// replaces the persona's configured temperament.
func TurnSystem(p persona.Config, mood persona.Mood) string {
	temperament := p.Temperament()
	if mood != "" {
		temperament = string(mood)
	}
	return fmt.Sprintf(
		"You are a chatbot named %s. "+
			"You use %s pronouns. "+
			"You are an expert in %s and have a %s personality. "+
			"Be consistent with these attributes. "+
			"Provide short and concise answers, sticking to the point without elaborating unnecessarily.",
		p.Name,
		p.Gender.Pronouns(),
		strings.ToLower(string(p.Expertise)),
		strings.ToLower(temperament),
	)
}

// OpeningMessages is the message list for the opening request.
func OpeningMessages(p persona.Config) []chat.Message {
	return []chat.Message{chat.SystemMessage(Opening(p))}
}

// TurnMessages is the system instruction followed by the whole transcript.
// Only role and content are carried over.
func TurnMessages(p persona.Config, mood persona.Mood, transcript []chat.Message) []chat.Message {
	out := make([]chat.Message, 0, len(transcript)+1)
	out = append(out, chat.SystemMessage(TurnSystem(p, mood)))
	for _, m := range transcript {
		out = append(out, chat.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
