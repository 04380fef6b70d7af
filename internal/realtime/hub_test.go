package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	a := hub.Register()
	b := hub.Register()
	assert.Equal(t, 2, hub.ClientCount())

	hub.Broadcast("deals", ActionInsert)

	for _, client := range []*Client{a, b} {
		select {
		case change := <-client.Events():
			assert.Equal(t, Change{Table: "deals", Action: ActionInsert}, change)
		case <-time.After(time.Second):
			t.Fatal("expected change event")
		}
	}
}

func TestHubUnregisterClosesStream(t *testing.T) {
	hub := NewHub()
	client := hub.Register()

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-client.Events()
	assert.False(t, open)

	// Idempotent.
	hub.Unregister(client)
}

func TestHubSlowClientDropsEvents(t *testing.T) {
	hub := NewHub()
	client := hub.Register()

	// Fill well past the client's buffer; Broadcast must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast("orders", ActionUpdate)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}

	// The client still holds a full buffer of pending events.
	received := 0
	for {
		select {
		case <-client.Events():
			received++
			continue
		default:
		}
		break
	}
	require.Greater(t, received, 0)
	assert.LessOrEqual(t, received, 16)
}

func TestHubBroadcastAfterUnregister(t *testing.T) {
	hub := NewHub()
	client := hub.Register()
	hub.Unregister(client)

	// Must not panic on the closed channel.
	hub.Broadcast("deals", ActionDelete)
}
