package orderapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{from: StatusPending, to: StatusOnHold, allowed: true},
		{from: StatusPending, to: StatusProcessing, allowed: true},
		{from: StatusPending, to: StatusFailed, allowed: true},
		{from: StatusOnHold, to: StatusProcessing, allowed: true},
		{from: StatusOnHold, to: StatusFailed, allowed: true},
		{from: StatusFailed, to: StatusProcessing, allowed: true},
		{from: StatusProcessing, to: StatusCompleted, allowed: true},
		{from: StatusProcessing, to: StatusOnHold, allowed: false},
		{from: StatusProcessing, to: StatusFailed, allowed: false},
		{from: StatusProcessing, to: StatusProcessing, allowed: false},
		{from: StatusFailed, to: StatusOnHold, allowed: false},
		{from: StatusCompleted, to: StatusProcessing, allowed: false},
		{from: StatusOnHold, to: StatusOnHold, allowed: false},
		{from: "checkout-draft", to: StatusOnHold, allowed: true},
	}
	for _, tc := range testCases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestCountsAsBooked(t *testing.T) {
	assert.True(t, CountsAsBooked(StatusProcessing))
	assert.True(t, CountsAsBooked(StatusOnHold))
	assert.True(t, CountsAsBooked(StatusCompleted))
	assert.False(t, CountsAsBooked(StatusPending))
	assert.False(t, CountsAsBooked(StatusFailed))
}
