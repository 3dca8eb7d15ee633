package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Process-wide counters for the order pipeline and the relay.
var (
	OrdersPlaced        Counter
	StatusTransitions   Counter
	TransitionsRejected Counter
	ReviewsSubmitted    Counter
	RelayDelivered      Counter
	RelayDropped        Counter
	RelayConnections    Counter
)

// Snapshot returns current counter values for the debug endpoint.
func Snapshot() map[string]uint64 {
	return map[string]uint64{
		"orders_placed":        OrdersPlaced.Load(),
		"status_transitions":   StatusTransitions.Load(),
		"transitions_rejected": TransitionsRejected.Load(),
		"reviews_submitted":    ReviewsSubmitted.Load(),
		"relay_delivered":      RelayDelivered.Load(),
		"relay_dropped":        RelayDropped.Load(),
		"relay_connections":    RelayConnections.Load(),
	}
}
