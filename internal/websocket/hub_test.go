package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(hub *Hub, id string) *Client {
	c := &Client{id: id, hub: hub, send: make(chan []byte, sendBuffer)}
	hub.register(c)
	return c
}

func drain(c *Client) []string {
	var out []string
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, string(data))
		default:
			return out
		}
	}
}

func TestHubRouting(t *testing.T) {
	hub := NewHub()
	a, b, c := testClient(hub, "a"), testClient(hub, "b"), testClient(hub, "c")

	hub.Subscribe("a", "room1")
	hub.Subscribe("b", "room1")
	hub.Subscribe("ghost", "room1")

	hub.SendToRoom("room1", map[string]int{"n": 1})
	hub.SendTo("c", map[string]int{"n": 2})
	hub.SendToAll(map[string]int{"n": 3})

	assert.Equal(t, []string{`{"n":1}`, `{"n":3}`}, drain(a))
	assert.Equal(t, []string{`{"n":1}`, `{"n":3}`}, drain(b))
	assert.Equal(t, []string{`{"n":2}`, `{"n":3}`}, drain(c))

	hub.Unsubscribe("a", "room1")
	hub.SendToRoom("room1", map[string]int{"n": 4})
	assert.Empty(t, drain(a))
	assert.Len(t, drain(b), 1)

	hub.DropRoom("room1")
	hub.SendToRoom("room1", map[string]int{"n": 5})
	assert.Empty(t, drain(b))
}

func TestHubSnapshotsAtSendTime(t *testing.T) {
	hub := NewHub()
	a := testClient(hub, "a")

	state := map[string]int{"time": 60}
	hub.SendTo("a", state)
	state["time"] = 59

	var got map[string]int
	out := drain(a)
	require.Len(t, out, 1)
	require.NoError(t, json.Unmarshal([]byte(out[0]), &got))
	assert.Equal(t, 60, got["time"])
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	a := testClient(hub, "a")
	hub.Subscribe("a", "room1")

	hub.unregister(a)
	hub.unregister(a)

	_, open := <-a.send
	assert.False(t, open)
	assert.Zero(t, hub.ClientCount())
	hub.SendToRoom("room1", "ignored")
}
