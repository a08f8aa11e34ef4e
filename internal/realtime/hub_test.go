package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastReachesAllClientsOfUser(t *testing.T) {
	h := NewHub()
	a1 := h.Register(7)
	a2 := h.Register(7) // second tab
	b := h.Register(8)

	h.BroadcastToUsers([]uint64{7}, Event{Type: EventMessageNew, Data: "x"})

	for _, c := range []*Client{a1, a2} {
		select {
		case ev := <-c.Send:
			assert.Equal(t, EventMessageNew, ev.Type)
		default:
			t.Fatal("expected event for user 7 client")
		}
	}
	select {
	case <-b.Send:
		t.Fatal("user 8 must not receive user 7 events")
	default:
	}
}

func TestHubUnregisterReleasesClient(t *testing.T) {
	h := NewHub()
	c := h.Register(1)
	h.Unregister(c)

	// Channel is closed so a draining write pump terminates.
	_, ok := <-c.Send
	require.False(t, ok)

	// Events after release go nowhere and must not panic.
	h.BroadcastToUsers([]uint64{1}, Event{Type: EventMessageNew})
}

func TestHubDropsWhenClientBufferFull(t *testing.T) {
	h := NewHub()
	c := h.Register(1)

	// Fill the buffer and one more; the overflow must not block.
	for i := 0; i < cap(c.Send)+10; i++ {
		h.BroadcastToUsers([]uint64{1}, Event{Type: EventMessageNew, Data: i})
	}
	assert.Equal(t, cap(c.Send), len(c.Send))
}

func TestHubBroadcastToUnknownUserIsNoop(t *testing.T) {
	h := NewHub()
	h.BroadcastToUsers([]uint64{42}, Event{Type: EventMessageNew})
}
