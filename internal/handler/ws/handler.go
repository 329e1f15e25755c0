package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/charbot/internal/handler/apierr"
	chatHandler "github.com/zhouzirui/charbot/internal/handler/chat"
	"github.com/zhouzirui/charbot/internal/model/persona"
	"github.com/zhouzirui/charbot/internal/service/conversation"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Inbound message types.
const (
	TypeStart   = "start"
	TypeMessage = "message"
)

// Handler runs conversations over a WebSocket. Every event of a start or
// turn is pushed to the client as its own JSON frame.
type Handler struct {
	conversations *conversation.Service
	presets       persona.Store
	upgrader      websocket.Upgrader
}

// New creates a WebSocket handler.
func New(conversations *conversation.Service, presets persona.Store) *Handler {
	return &Handler{
		conversations: conversations,
		presets:       presets,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the socket route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

// InboundMessage is a client frame. Data holds a start request for "start"
// and a turn request for "message".
type InboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, _, err := h.conversations.Session(r.Context(), sessionID); err != nil {
		apierr.Respond(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, conn)

	emit := func(ev conversation.Event) {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("[websocket] write failed: %v", err)
		}
	}

	inbound := readLoop(ctx, conn, cancel)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			h.handleMessage(ctx, sessionID, msg, emit)
		}
	}
}

// readLoop reads frames until the connection fails, then cancels the
// connection context so a running start or turn is abandoned.
func readLoop(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) <-chan InboundMessage {
	inbound := make(chan InboundMessage, 8)
	go func() {
		defer close(inbound)
		defer cancel()
		for {
			var msg InboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			select {
			case inbound <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return inbound
}

func (h *Handler) handleMessage(ctx context.Context, sessionID string, msg InboundMessage, emit conversation.Emitter) {
	var err error
	switch msg.Type {
	case TypeStart:
		var req chatHandler.StartRequest
		if err = decodeData(msg.Data, &req); err != nil {
			break
		}
		cfg, variant, resolveErr := chatHandler.ResolvePersona(h.presets, req)
		if resolveErr != nil {
			err = resolveErr
			break
		}
		_, err = h.conversations.Start(ctx, sessionID, cfg, variant, emit)
	case TypeMessage:
		var req conversation.TurnRequest
		if err = decodeData(msg.Data, &req); err != nil {
			break
		}
		_, err = h.conversations.Send(ctx, sessionID, req, emit)
	default:
		emit(conversation.Event{Type: conversation.EventError, SessionID: sessionID, Error: "unsupported message type " + msg.Type})
		return
	}

	if err != nil && !conversation.IsRemoteFailure(err) {
		emit(conversation.Event{Type: conversation.EventError, SessionID: sessionID, Error: err.Error()})
	}
	emit(conversation.Event{Type: conversation.EventEnd, SessionID: sessionID, Finished: true})
}

func decodeData(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
