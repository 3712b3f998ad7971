package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Publish_DeliversOncePerSubscriber(t *testing.T) {
	// Setup
	hub := NewHub()
	ch, cleanup := hub.Subscribe("admin_dashboard", "attendance_updates")
	defer cleanup()

	// Act
	n := hub.Publish([]string{"admin_dashboard", "attendance_updates"}, Event{Event: "attendance_update", Data: "x"})

	// Assert
	assert.Equal(t, 1, n)
	require.Len(t, ch, 1)
	ev := <-ch
	assert.Equal(t, "attendance_update", ev.Event)
}

func TestHub_Publish_OnlyMatchingRooms(t *testing.T) {
	hub := NewHub()
	admin, c1 := hub.Subscribe("admin_dashboard")
	defer c1()
	emp, c2 := hub.Subscribe("employee_dashboard")
	defer c2()

	hub.Publish([]string{"admin_dashboard"}, Event{Event: "task_update"})

	assert.Len(t, admin, 1)
	assert.Len(t, emp, 0)
}

func TestHub_Publish_SkipsFullChannel(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("room")
	defer cleanup()

	for i := 0; i < cap(ch)+5; i++ {
		hub.Publish([]string{"room"}, Event{Event: "e"})
	}

	assert.Equal(t, cap(ch), len(ch))
}

func TestHub_Cleanup_RemovesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("a", "b")
	assert.Equal(t, 1, hub.TotalSubscribers())

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.TotalSubscribers())
	assert.Equal(t, 0, hub.SubscriberCount("a"))
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Publish([]string{"a"}, Event{Event: "e"}))
}
