package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_CreateIsIdempotent(t *testing.T) {
	store := NewInMemoryStore()

	first, err := store.Create("sess-1")
	require.NoError(t, err)
	first.SetState("ignored", true) // mutating the clone must not leak back

	require.NoError(t, store.ApplyDelta("sess-1", map[string]interface{}{"conversation_context": "technical"}))

	again, err := store.Create("sess-1")
	require.NoError(t, err)

	v, ok := again.GetState("conversation_context")
	require.True(t, ok)
	assert.Equal(t, "technical", v)
	_, ok = again.GetState("ignored")
	assert.False(t, ok)
}

func TestInMemoryStore_GetCreatesLazily(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", sess.ID)
	assert.Empty(t, sess.Events)
}

func TestInMemoryStore_AppendEventAppliesDeltaFirst(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Create("sess-1")
	require.NoError(t, err)

	ev := core.NewMessageEvent("MoEngageSupportChatManager", "Routing you now.")
	ev.Actions.StateDelta = map[string]interface{}{"last_active_agent": "TechnicalTroubleshootAgent"}
	require.NoError(t, store.AppendEvent("sess-1", ev))

	sess, err := store.Get("sess-1")
	require.NoError(t, err)
	require.Len(t, sess.Events, 1)
	v, ok := sess.GetState("last_active_agent")
	require.True(t, ok)
	assert.Equal(t, "TechnicalTroubleshootAgent", v)
}

func TestInMemoryStore_ClonesIsolateCallers(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Create("sess-1")
	require.NoError(t, err)

	a, err := store.Get("sess-1")
	require.NoError(t, err)
	a.SetState("scratch", 1)

	b, err := store.Get("sess-1")
	require.NoError(t, err)
	_, ok := b.GetState("scratch")
	assert.False(t, ok)
}
