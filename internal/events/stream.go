package events

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// StreamHandler serves GET /ws/questions, a push feed of question bank changes.
type StreamHandler struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

func NewStreamHandler(hub *ws.Hub, logger zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		logger: logger.With().Str("component", "question_stream").Logger(),
	}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContextOr(r.Context(), h.logger)

	raw, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	id := uuid.New()
	connLogger := logger.With().Str("connection_id", id.String()).Logger()
	conn := ws.NewConnection(raw, ws.DefaultQueueSize, connLogger)
	h.hub.Register(id, conn)
	defer h.hub.Unregister(id)

	go conn.WritePump()
	conn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(conn, msg)
	})
}

func (h *StreamHandler) handleMessage(conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
	default:
		reply, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
			Code:    "unsupported_message",
			Message: "stream is read-only; only ping is accepted",
		})
		if err != nil {
			return err
		}
		reply.RequestID = msg.RequestID
		return conn.Send(reply)
	}
}
