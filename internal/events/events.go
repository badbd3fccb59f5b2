package events

import (
	"encoding/json"
	"time"
)

// Event types published by the engine.
const (
	TypePing            = "ping"
	TypeCouponsIngested = "coupons_ingested"
)

type Event struct {
	Type      string          `json:"type"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent builds the wire form of an event envelope.
func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
