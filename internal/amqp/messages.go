package amqp

import (
	"encoding/json"
	"time"

	"outlay/internal/core"
)

// Mirror message kinds.
const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// MirrorMessage tells the worker to reflect one store mutation into the
// spreadsheet mirror. Upserts carry the full record so the worker needs no
// read-back from the store; deletes carry only the id.
type MirrorMessage struct {
	Kind      string        `json:"kind"`
	ID        string        `json:"id"`
	Expense   *core.Expense `json:"expense,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewUpsertMessage builds a mirror message for a created or updated record.
func NewUpsertMessage(e core.Expense) *MirrorMessage {
	return &MirrorMessage{
		Kind:      KindUpsert,
		ID:        e.ID,
		Expense:   &e,
		Timestamp: time.Now(),
	}
}

// NewDeleteMessage builds a mirror message for a removed record.
func NewDeleteMessage(id string) *MirrorMessage {
	return &MirrorMessage{
		Kind:      KindDelete,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *MirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MirrorMessageFromJSON parses a message from JSON bytes.
func MirrorMessageFromJSON(data []byte) (*MirrorMessage, error) {
	var msg MirrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
