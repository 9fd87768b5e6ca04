package messaging

import (
	"errors"
	"time"

	"github.com/colonyops/promptshelf/pkg/randid"
)

// Validation errors for Message.
var (
	ErrEmptyTopic      = errors.New("topic is required")
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
)

// MaxPayloadSize is the largest payload accepted, in bytes (1MB).
const MaxPayloadSize = 1 << 20

// Well-known topics.
const (
	TopicSelection = "selection" // text captured from a host surface
)

// Message is one unit relayed from a host to a UI surface.
type Message struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Payload   string    `json:"payload"`
	Sender    string    `json:"sender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage builds and validates a message with a fresh ID.
func NewMessage(topic, payload string) (Message, error) {
	m := Message{
		ID:        randid.Generate(10),
		Topic:     topic,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Validate checks topic and payload size.
func (m *Message) Validate() error {
	if m.Topic == "" {
		return ErrEmptyTopic
	}
	if len(m.Payload) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	return nil
}
