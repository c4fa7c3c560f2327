package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_NewGroupID(t *testing.T) {
	g := NewUUIDGenerator()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id := g.NewGroupID()
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		assert.False(t, seen[id], "duplicate group id %s", id)
		seen[id] = true
	}
}
