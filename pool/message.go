package pool

import (
	"encoding/json"
	"fmt"
)

// MessageType tags a handshake message between a parent and a child process.
type MessageType string

const (
	// MessageReady is sent by the child once it can accept its task.
	MessageReady MessageType = "ready"
	// MessageDone carries the child's result in Payload.
	MessageDone MessageType = "done"
	// MessageError reports that the child failed. No detail is attached.
	MessageError MessageType = "error"
)

// Message is one line of the child-to-parent stream. Only done messages
// carry a payload.
//
// On the wire each message is a single JSON object followed by a newline:
//
//	{"type":"ready"}
//	{"type":"done","payload":{"sum":"9f86d0..."}}
//	{"type":"error"}
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ReadyMessage builds a ready message.
func ReadyMessage() Message {
	return Message{Type: MessageReady}
}

// ErrorMessage builds an error message.
func ErrorMessage() Message {
	return Message{Type: MessageError}
}

// DoneMessage builds a done message with payload encoded as JSON.
func DoneMessage(payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode payload: %w", err)
	}
	return Message{Type: MessageDone, Payload: raw}, nil
}

// Validate rejects unknown tags and payloads on non-done messages.
func (m Message) Validate() error {
	switch m.Type {
	case MessageReady, MessageError:
		if len(m.Payload) != 0 {
			return fmt.Errorf("%w: %s message carries a payload", ErrInvalidArgument, m.Type)
		}
		return nil
	case MessageDone:
		return nil
	default:
		return fmt.Errorf("%w: unknown message type %q", ErrInvalidArgument, m.Type)
	}
}

// Decode unmarshals a done message's payload into v. A done message without
// a payload leaves v untouched.
func (m Message) Decode(v any) error {
	if m.Type != MessageDone {
		return fmt.Errorf("%w: %s message has no payload", ErrInvalidArgument, m.Type)
	}
	if len(m.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
