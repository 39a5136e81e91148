package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

var _ core.SessionStore = (*PostgresStore)(nil)

func TestRowToSession(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(2 * time.Minute)

	ev := core.NewUserMessageEvent("run-1", "push campaign stuck")
	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	sess, err := rowToSession(&sessionRow{
		ID:         "sess-1",
		UserID:     "user-7",
		AppName:    "moe-support",
		CreateTime: created,
		UpdateTime: updated,
		State:      map[string]interface{}{"conversation_context": "technical"},
	}, []sessionEventRow{{
		ID:        ev.ID,
		SessionID: "sess-1",
		Author:    ev.Author,
		Timestamp: ev.Timestamp,
		Payload:   payload,
	}})
	require.NoError(t, err)

	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "user-7", sess.UserID)
	assert.Equal(t, created, sess.Created)
	assert.Equal(t, updated, sess.Updated)

	v, ok := sess.GetState("conversation_context")
	require.True(t, ok)
	assert.Equal(t, "technical", v)

	require.Len(t, sess.Events, 1)
	assert.Equal(t, "push campaign stuck", sess.Events[0].VisibleText())
	assert.Equal(t, "user", sess.Events[0].Author)
}

func TestRowToSession_CorruptEventPayload(t *testing.T) {
	_, err := rowToSession(&sessionRow{ID: "sess-1"}, []sessionEventRow{{
		ID:      "ev-1",
		Payload: []byte("{not json"),
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode event")
}

func TestRowToSession_NilStateBecomesEmptyBag(t *testing.T) {
	sess, err := rowToSession(&sessionRow{ID: "sess-1"}, nil)
	require.NoError(t, err)
	require.NotNil(t, sess.State)
	sess.SetState("k", "v") // must not panic on a nil map
}
