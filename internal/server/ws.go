package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/batch"
	httperrors "github.com/quizforge/quizforge/pkg/http/errors"
	"github.com/quizforge/quizforge/pkg/http/ws"
)

// WSHandler upgrades connections and routes batch subscription
// messages to the hub.
type WSHandler struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

func NewWSHandler(hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// HandleWebSocket serves /ws/batches.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	clientID := uuid.New()
	connection := ws.NewConnection(conn, h.logger)
	h.hub.RegisterConnection(clientID, connection)

	go connection.WritePump()
	go func() {
		defer h.hub.UnregisterConnection(clientID)
		connection.ReadPump(func(msg ws.Message) error {
			return h.handleMessage(clientID, connection, msg)
		})
	}()
}

func (h *WSHandler) handleMessage(clientID uuid.UUID, conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeSubscribeBatch:
		var payload ws.SubscribeBatchPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.BatchID == "" {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, "subscribe_batch requires batch_id")
		}
		h.hub.Subscribe(payload.BatchID, clientID)
		return nil

	case ws.TypeUnsubscribeBatch:
		var payload ws.UnsubscribeBatchPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.BatchID == "" {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, "unsubscribe_batch requires batch_id")
		}
		h.hub.Unsubscribe(payload.BatchID, clientID)
		return nil

	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})

	default:
		return h.sendError(conn, msg.RequestID, httperrors.ErrCodeUnknownMessageType, "unknown message type: "+msg.Type)
	}
}

func (h *WSHandler) sendError(conn *ws.Connection, requestID, code, message string) error {
	payload, _ := json.Marshal(ws.ErrorPayload{Code: code, Message: message})
	return conn.Send(ws.Message{Type: ws.TypeError, Payload: payload, RequestID: requestID})
}

// HubSink forwards pipeline progress events to batch subscribers.
type HubSink struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

func NewHubSink(hub *ws.Hub, logger zerolog.Logger) *HubSink {
	return &HubSink{hub: hub, logger: logger}
}

var _ batch.ProgressSink = (*HubSink)(nil)

func (s *HubSink) Publish(event batch.ProgressEvent) {
	payload, err := json.Marshal(ws.BatchProgressPayload{
		BatchID:   event.BatchID,
		Stage:     event.Stage,
		Filename:  event.Filename,
		FileIndex: event.FileIndex,
		FileCount: event.FileCount,
		Error:     event.Error,
	})
	if err != nil {
		return
	}
	if err := s.hub.BroadcastToBatch(event.BatchID, ws.Message{Type: ws.TypeBatchProgress, Payload: payload}); err != nil {
		s.logger.Debug().Err(err).Str("batch_id", event.BatchID).Msg("progress broadcast failed")
	}
}
