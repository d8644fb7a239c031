package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type ratedEvent struct {
	MatchID string   `msgpack:"match_id"`
	Deltas  []int    `msgpack:"deltas"`
	Players []string `msgpack:"players"`
}

func TestNew_WithoutProjectIsNoop(t *testing.T) {
	c, err := New(context.Background(), "")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SendMessage(context.Background(), EventMatchRated, ratedEvent{MatchID: "m1"}))
}

func TestProcessMessage_DecodesMsgpack(t *testing.T) {
	in := ratedEvent{MatchID: "m1", Deltas: []int{131, -131}, Players: []string{"a", "b", "c", "d"}}
	data, err := msgpack.Marshal(in)
	require.NoError(t, err)

	var out ratedEvent
	require.NoError(t, noopClient{}.ProcessMessage(data, &out))
	assert.Equal(t, in, out)
}

func TestProcessMessage_RejectsGarbage(t *testing.T) {
	var out ratedEvent
	err := noopClient{}.ProcessMessage([]byte{0xc1}, &out)
	assert.Error(t, err)
}

func TestMock_RecordsTopics(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SendMessage(context.Background(), EventMatchRated, nil))
	require.NoError(t, m.SendMessage(context.Background(), EventDivisionChanged, nil))
	assert.Equal(t, []EventType{EventMatchRated, EventDivisionChanged}, m.Topics())
}
