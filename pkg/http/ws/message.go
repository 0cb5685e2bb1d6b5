package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeSubscribeBatch   = "subscribe_batch"
	TypeUnsubscribeBatch = "unsubscribe_batch"

	// Server -> Client
	TypeBatchProgress = "batch_progress"
	TypeBatchComplete = "batch_complete"
	TypeError         = "error"
	TypePing          = "ping"
	TypePong          = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type SubscribeBatchPayload struct {
	BatchID string `json:"batch_id"`
}

type UnsubscribeBatchPayload struct {
	BatchID string `json:"batch_id"`
}

// Server Messages (outgoing)

type BatchProgressPayload struct {
	BatchID   string `json:"batch_id"`
	Stage     string `json:"stage"`
	Filename  string `json:"filename,omitempty"`
	FileIndex int    `json:"file_index"`
	FileCount int    `json:"file_count"`
	Error     string `json:"error,omitempty"`
}

type BatchCompletePayload struct {
	BatchID       string `json:"batch_id"`
	QuizID        string `json:"quiz_id,omitempty"`
	QuestionCount int    `json:"question_count"`
	ConflictCount int    `json:"conflict_count"`
	Succeeded     int    `json:"succeeded"`
	Failed        int    `json:"failed"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
