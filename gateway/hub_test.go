// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/session"
)

var _ session.Publisher = (*Hub)(nil)

func newTestClient(t *testing.T, id string, metrics *Metrics) (*Client, *mockConn) {
	t.Helper()
	conn := newMockConn()
	c := NewClient(context.Background(), id, conn, metrics)
	t.Cleanup(c.Close)
	return c, conn
}

func TestHubPublish(t *testing.T) {
	metrics := NewMetrics()
	hub := NewHub(metrics)

	teacher, _ := newTestClient(t, "teacher", metrics)
	student, _ := newTestClient(t, "student", metrics)
	outsider, _ := newTestClient(t, "outsider", metrics)
	for _, c := range []*Client{teacher, student, outsider} {
		hub.Register(c)
	}
	hub.Subscribe("room-1", "teacher")
	hub.Subscribe("room-1", "student")
	hub.Subscribe("room-2", "outsider")

	hub.Publish("room-1", models.Event{Type: models.EventPollCreated, RoomID: "room-1"})

	for _, c := range []*Client{teacher, student} {
		got := drainQueue(t, c)
		require.Len(t, got, 1, c.ID())
		assert.Equal(t, models.EventPollCreated, got[0].Type)
		assert.Equal(t, "room-1", got[0].RoomID)
	}
	assert.Empty(t, drainQueue(t, outsider))
	assert.Equal(t, 2, hub.Subscribers("room-1"))
}

func TestHubSendTo(t *testing.T) {
	metrics := NewMetrics()
	hub := NewHub(metrics)
	a, _ := newTestClient(t, "a", metrics)
	b, _ := newTestClient(t, "b", metrics)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe("room", "a")
	hub.Subscribe("room", "b")

	hub.SendTo("b", models.Event{Type: models.EventKickedOut, RoomID: "room"})

	assert.Empty(t, drainQueue(t, a))
	got := drainQueue(t, b)
	require.Len(t, got, 1)
	assert.Equal(t, models.EventKickedOut, got[0].Type)

	assert.False(t, hub.SendRaw("nobody", []byte("{}")))
}

func TestHubMembershipCleanup(t *testing.T) {
	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		metrics := NewMetrics()
		hub := NewHub(metrics)
		c, _ := newTestClient(t, "c", metrics)
		hub.Register(c)
		hub.Subscribe("room", "c")

		hub.Unsubscribe("room", "c")
		hub.Publish("room", models.Event{Type: models.EventTimerUpdate})

		assert.Empty(t, drainQueue(t, c))
		assert.Equal(t, 0, hub.Subscribers("room"))
	})

	t.Run("unregister leaves every room", func(t *testing.T) {
		metrics := NewMetrics()
		hub := NewHub(metrics)
		c, _ := newTestClient(t, "c", metrics)
		hub.Register(c)
		hub.Subscribe("r1", "c")
		hub.Subscribe("r2", "c")

		hub.Unregister("c")

		assert.Equal(t, 0, hub.Subscribers("r1"))
		assert.Equal(t, 0, hub.Subscribers("r2"))
		assert.Empty(t, hub.memberships)
		assert.Empty(t, hub.clients)
	})

	t.Run("drop room keeps connections registered", func(t *testing.T) {
		metrics := NewMetrics()
		hub := NewHub(metrics)
		c, _ := newTestClient(t, "c", metrics)
		hub.Register(c)
		hub.Subscribe("r1", "c")
		hub.Subscribe("r2", "c")

		hub.DropRoom("r1")
		hub.Publish("r1", models.Event{Type: models.EventTimerUpdate})
		hub.Publish("r2", models.Event{Type: models.EventTimerUpdate})

		assert.Len(t, drainQueue(t, c), 1)
		assert.True(t, hub.SendRaw("c", []byte("{}")))
	})
}
