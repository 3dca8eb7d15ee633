package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom(t *testing.T) {
	assert.Equal(t, "customer-abc", Room("customer", "abc"))
	assert.Equal(t, "provider-abc", Room("provider", "abc"))
}

func TestHub_JoinAndPublish(t *testing.T) {
	hub := NewHub()
	c := NewClient(4)
	hub.Join("customer-1", c)

	delivered := hub.Publish("customer-1", Event{Name: "order_status_updated", Data: "x"})

	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, hub.RoomSize("customer-1"))

	got := <-c.Events()
	assert.Equal(t, "order_status_updated", got.Name)
}

func TestHub_PublishToAbsentRoom(t *testing.T) {
	hub := NewHub()

	// No subscriber: the event is dropped, not queued.
	assert.Equal(t, 0, hub.Publish("provider-unknown", Event{Name: "new_order"}))
}

func TestHub_RoomIsolation(t *testing.T) {
	hub := NewHub()
	customer := NewClient(4)
	provider := NewClient(4)
	hub.Join("customer-1", customer)
	hub.Join("provider-1", provider)

	hub.Publish("provider-1", Event{Name: "new_order"})

	select {
	case <-customer.Events():
		t.Fatal("customer received a provider-room event")
	default:
	}

	got := <-provider.Events()
	assert.Equal(t, "new_order", got.Name)
}

func TestHub_MultipleConnectionsSameRoom(t *testing.T) {
	hub := NewHub()
	first := NewClient(4)
	second := NewClient(4)
	hub.Join("customer-1", first)
	hub.Join("customer-1", second)

	delivered := hub.Publish("customer-1", Event{Name: "order_status_updated"})

	assert.Equal(t, 2, delivered)
	assert.Equal(t, 2, hub.RoomSize("customer-1"))
}

func TestHub_SlowConsumerDropped(t *testing.T) {
	hub := NewHub()
	c := NewClient(1)
	hub.Join("customer-1", c)

	assert.Equal(t, 1, hub.Publish("customer-1", Event{Name: "first"}))
	// Buffer full: the second event is dropped without blocking.
	assert.Equal(t, 0, hub.Publish("customer-1", Event{Name: "second"}))

	got := <-c.Events()
	assert.Equal(t, "first", got.Name)
}

func TestHub_Leave(t *testing.T) {
	hub := NewHub()
	c := NewClient(4)
	hub.Join("customer-1", c)
	hub.Leave(c)

	assert.Equal(t, 0, hub.RoomSize("customer-1"))
	assert.Equal(t, 0, hub.Publish("customer-1", Event{Name: "after_leave"}))

	// The send channel is closed on leave so the writer loop terminates.
	_, open := <-c.Events()
	assert.False(t, open)

	// A second leave is a no-op, not a double close.
	require.NotPanics(t, func() { hub.Leave(c) })
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	a := NewClient(4)
	b := NewClient(4)
	hub.Join("customer-1", a)
	hub.Join("provider-2", b)

	delivered := hub.Broadcast(Event{Name: "menu_updated"})
	assert.Equal(t, 2, delivered)
}
