package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/charbot/internal/model/chat"
	"github.com/zhouzirui/charbot/internal/model/persona"
)

func TestOpeningInterpolatesPersona(t *testing.T) {
	cases := []struct {
		cfg      persona.Config
		pronouns string
		temper   string
	}{
		{persona.Config{Name: "Harsvardhan", Gender: persona.Male, Expertise: persona.Education, Tone: persona.Friendly}, "he/him", "friendly"},
		{persona.Config{Name: "Mira Q.", Gender: persona.Female, Expertise: persona.Healthcare, Tone: persona.Empathetic}, "she/her", "empathetic"},
		{persona.Config{Name: "Kai", Gender: persona.Neutral, Expertise: persona.Gaming, Mood: persona.Thoughtful}, "they/them", "thoughtful"},
		{persona.Config{Name: "X", Gender: "Other", Expertise: persona.Finance, Tone: persona.Humorous}, "they/them", "humorous"},
	}

	for _, tc := range cases {
		got := Opening(tc.cfg)
		assert.Contains(t, got, "named "+tc.cfg.Name+".")
		assert.Contains(t, got, "uses "+tc.pronouns+" pronouns")
		assert.Contains(t, got, "expert in "+strings.ToLower(string(tc.cfg.Expertise)))
		assert.Contains(t, got, "a "+tc.temper+" personality")
	}
}

func TestOpeningMessagesIsSingleSystemMessage(t *testing.T) {
	msgs := OpeningMessages(persona.Default())
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.RoleSystem, msgs[0].Role)
	assert.Equal(t, Opening(persona.Default()), msgs[0].Content)
}

func TestTurnSystemUsesCurrentMood(t *testing.T) {
	cfg := persona.Config{Name: "Kai", Gender: persona.Male, Expertise: persona.Gaming, Mood: persona.Calm}

	assert.Contains(t, TurnSystem(cfg, ""), "a calm personality")
	assert.Contains(t, TurnSystem(cfg, persona.Agitated), "a agitated personality")
	assert.Contains(t, TurnSystem(cfg, persona.Agitated), "Be consistent with these attributes.")
}

func TestTurnMessagesPrependsSystem(t *testing.T) {
	transcript := []chat.Message{
		{ID: "1", Role: chat.RoleAssistant, Content: "Hello!"},
		{ID: "2", Role: chat.RoleUser, Content: "Hi"},
		{ID: "3", Role: chat.RoleUser, Content: "Anyone there?"},
	}

	msgs := TurnMessages(persona.Default(), "", transcript)
	require.Len(t, msgs, 4)
	assert.Equal(t, chat.RoleSystem, msgs[0].Role)
	for i, m := range transcript {
		assert.Equal(t, m.Role, msgs[i+1].Role)
		assert.Equal(t, m.Content, msgs[i+1].Content)
		assert.Empty(t, msgs[i+1].ID)
	}
}

func TestTurnMessagesDoesNotAliasTranscript(t *testing.T) {
	transcript := []chat.Message{{Role: chat.RoleUser, Content: "Hi"}}
	msgs := TurnMessages(persona.Default(), "", transcript)
	msgs[1].Content = "mutated"
	assert.Equal(t, "Hi", transcript[0].Content)
}
