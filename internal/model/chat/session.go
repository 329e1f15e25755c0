package chat

import (
	"time"

	"github.com/zhouzirui/charbot/internal/model/persona"
)

// Session captures one user's conversation. Persona and Variant are only
// meaningful once Started is true.
type Session struct {
	ID        string          `json:"id"`
	Started   bool            `json:"started"`
	Variant   persona.Variant `json:"variant,omitempty"`
	Persona   persona.Config  `json:"persona"`
	Mood      persona.Mood    `json:"mood,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// MoodAware reports whether turns re-classify the mood.
func (s Session) MoodAware() bool {
	return s.Variant == persona.VariantMood
}
