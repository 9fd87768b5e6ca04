package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv4_NewID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := UUIDv4{}.NewID()

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
		assert.Equal(t, uuid.RFC4122, parsed.Variant())
		assert.True(t, IsUUID(id))

		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestIsUUID(t *testing.T) {
	assert.False(t, IsUUID(""))
	assert.False(t, IsUUID("not-a-uuid"))
	assert.True(t, IsUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
}

func TestSequence(t *testing.T) {
	s := &Sequence{Prefix: "p"}
	assert.Equal(t, "p-1", s.NewID())
	assert.Equal(t, "p-2", s.NewID())
}
