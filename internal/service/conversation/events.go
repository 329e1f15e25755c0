package conversation

import (
	"github.com/zhouzirui/charbot/internal/model/chat"
	"github.com/zhouzirui/charbot/internal/service/emotion"
)

// EventType names the steps of a turn as seen by a client.
type EventType string

const (
	EventStart   EventType = "start"
	EventUser    EventType = "user"
	EventMood    EventType = "mood"
	EventPending EventType = "pending"
	EventMessage EventType = "message"
	EventClear   EventType = "clear"
	EventError   EventType = "error"
	EventEnd     EventType = "end"
)

// PendingText is shown in place of the reply while it is generated.
const PendingText = "Generating answer..."

// Event is one step of a start or turn, pushed to SSE and WebSocket clients.
type Event struct {
	Type      EventType         `json:"event"`
	SessionID string            `json:"sessionId,omitempty"`
	Content   string            `json:"content,omitempty"`
	Message   *chat.Message     `json:"message,omitempty"`
	Mood      *emotion.Guidance `json:"mood,omitempty"`
	Error     string            `json:"error,omitempty"`
	Finished  bool              `json:"finished,omitempty"`
}

// Emitter receives events in order. A nil Emitter discards them.
type Emitter func(Event)

func (e Emitter) emit(ev Event) {
	if e != nil {
		e(ev)
	}
}
