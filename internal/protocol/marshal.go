package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownMessageType is returned for envelopes with an unrecognised type
var ErrUnknownMessageType = errors.New("unknown message type")

// NewMessage wraps data in an envelope stamped with the current time
func NewMessage(messageType MessageType, data any, requestID string) (*Message, error) {
	msg := &Message{
		Type:      messageType,
		Timestamp: time.Now(),
		RequestID: requestID,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", messageType, err)
		}
		msg.Data = raw
	}
	return msg, nil
}

// Decode unmarshals the envelope payload into v
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s message has no data", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", m.Type, err)
	}
	return nil
}

// IsRequest reports whether t is sent by clients
func (t MessageType) IsRequest() bool {
	switch t {
	case TypeStartGame, TypeBid, TypeChallenge, TypeNextRound, TypeGetState:
		return true
	}
	return false
}
