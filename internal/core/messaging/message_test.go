package messaging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Run("valid message", func(t *testing.T) {
		m, err := NewMessage(TopicSelection, "selected text")
		require.NoError(t, err)
		assert.Equal(t, TopicSelection, m.Topic)
		assert.Equal(t, "selected text", m.Payload)
		assert.Len(t, m.ID, 10)
		assert.False(t, m.CreatedAt.IsZero())
	})

	t.Run("empty topic", func(t *testing.T) {
		_, err := NewMessage("", "payload")
		assert.ErrorIs(t, err, ErrEmptyTopic)
	})

	t.Run("empty payload is valid", func(t *testing.T) {
		m, err := NewMessage("topic", "")
		require.NoError(t, err)
		assert.Empty(t, m.Payload)
	})

	t.Run("payload at max size", func(t *testing.T) {
		_, err := NewMessage("topic", strings.Repeat("x", MaxPayloadSize))
		assert.NoError(t, err)
	})

	t.Run("payload exceeds max size", func(t *testing.T) {
		_, err := NewMessage("topic", strings.Repeat("x", MaxPayloadSize+1))
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
	})
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	a, err := NewMessage("t", "1")
	require.NoError(t, err)
	b, err := NewMessage("t", "2")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
