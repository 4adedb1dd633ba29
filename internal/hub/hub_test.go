package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesRoundSubscribersOnly(t *testing.T) {
	h := NewHub()
	a := make(Client, 1)
	b := make(Client, 1)
	h.Subscribe("r1", a)
	h.Subscribe("r2", b)

	h.Broadcast("r1", Event{Type: EventReaction, Payload: map[string]int{"fire": 1}})

	require.Len(t, a, 1)
	var got Event
	require.NoError(t, json.Unmarshal(<-a, &got))
	assert.Equal(t, EventReaction, got.Type)
	assert.Empty(t, b)
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	h := NewHub()
	slow := make(Client)
	h.Subscribe("r1", slow)

	h.Broadcast("r1", Event{Type: EventCommentAdded})
	assert.Equal(t, 1, h.Subscribers("r1"))
}

func TestHub_UnsubscribeClosesAndCleansUp(t *testing.T) {
	h := NewHub()
	c := make(Client, 1)
	h.Subscribe("r1", c)
	h.Unsubscribe("r1", c)

	_, open := <-c
	assert.False(t, open)
	assert.Equal(t, 0, h.Subscribers("r1"))

	h.Unsubscribe("r1", c) // no double close
}
