package omise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	testCases := []struct {
		name     string
		amount   float64
		minimum  int64
		expected int64
	}{
		{name: "below minimum is raised", amount: 5.00, minimum: 2000, expected: 2000},
		{name: "exactly minimum", amount: 20.00, minimum: 2000, expected: 2000},
		{name: "regular amount", amount: 200.00, minimum: 2000, expected: 20000},
		{name: "float imprecision", amount: 19.99, minimum: 0, expected: 1999},
		{name: "half rounds up", amount: 10.005, minimum: 0, expected: 1001},
		{name: "no minimum", amount: 0.5, minimum: 0, expected: 50},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToMinorUnits(tc.amount, tc.minimum))
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, 200.0, FromMinorUnits(20000))
	assert.Equal(t, 19.99, FromMinorUnits(1999))
}
