package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("Pending").Valid())
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPreparing.Terminal())
	assert.False(t, StatusOutForDelivery.Terminal())
	assert.False(t, Status("unknown").Terminal())
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusCancelled},
		{StatusPreparing, StatusOutForDelivery},
		{StatusPreparing, StatusCancelled},
		{StatusOutForDelivery, StatusDelivered},
		{StatusOutForDelivery, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	all := []Status{StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCancelled}

	// Terminal states accept nothing.
	for _, to := range all {
		assert.False(t, CanTransition(StatusDelivered, to), "delivered -> %s", to)
		assert.False(t, CanTransition(StatusCancelled, to), "cancelled -> %s", to)
	}

	// Skipping a step is illegal.
	assert.False(t, CanTransition(StatusPending, StatusOutForDelivery))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusPreparing, StatusDelivered))

	// Going backwards is illegal.
	assert.False(t, CanTransition(StatusPreparing, StatusPending))
	assert.False(t, CanTransition(StatusOutForDelivery, StatusPreparing))

	// Self-loops are illegal.
	for _, s := range all {
		assert.False(t, CanTransition(s, s), "%s self-loop", s)
	}
}

func TestValidNext(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusPreparing, StatusCancelled}, ValidNext(StatusPending))
	assert.Empty(t, ValidNext(StatusDelivered))
	assert.Empty(t, ValidNext(Status("bogus")))
}
