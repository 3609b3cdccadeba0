package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeledger/homeledger/internal/models"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()

	created := store.Create("s1", "u1")
	require.NotNil(t, created)
	assert.Equal(t, "s1", created.SessionID)
	assert.Equal(t, "u1", created.UserID)
	assert.True(t, created.ActionSuccessful)
	assert.Equal(t, 0, created.ConversationStep)

	got, ok := store.Get("s1")
	require.True(t, ok)
	assert.Same(t, created, got)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

// Recreating a session resets it rather than failing.
func TestMemoryStoreRecreateOverwrites(t *testing.T) {
	store := NewMemoryStore()

	first := store.Create("s1", "u1")
	first.ConversationStep = 5

	second := store.Create("s1", "u1")
	assert.Equal(t, 0, second.ConversationStep)

	got, ok := store.Get("s1")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	store.Create("s1", "u1")

	replacement := models.NewConversationState("s1", "u1")
	replacement.ConversationStep = 3
	store.Update("s1", replacement)

	got, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 3, got.ConversationStep)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	store.Create("s1", "u1")

	store.Clear("s1")
	_, ok := store.Get("s1")
	assert.False(t, ok)

	// Clearing again is a no-op.
	store.Clear("s1")
}
