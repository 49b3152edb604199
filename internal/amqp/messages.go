package amqp

import (
	"encoding/json"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/ledger"
)

// LedgerEventMessage is the wire form of a ledger change event. It is
// deliberately small: consumers reload the user's data for current state
// instead of trusting a snapshot that may already be stale.
type LedgerEventMessage struct {
	User      string     `json:"user"`
	Month     core.Month `json:"month"`
	Op        string     `json:"op"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewLedgerEventMessage converts an engine event to its wire form.
func NewLedgerEventMessage(ev ledger.Event) *LedgerEventMessage {
	return &LedgerEventMessage{
		User:      ev.User,
		Month:     ev.Month,
		Op:        string(ev.Op),
		Timestamp: ev.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON decodes a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
