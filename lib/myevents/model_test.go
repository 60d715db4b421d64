package myevents

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEventEnvelope(t *testing.T) {
	t.Run("Valid push request", func(t *testing.T) {
		envelopeBytes, _ := json.Marshal(EventEnvelope{
			UID:           "abc",
			Topic:         "checkout",
			AggregateUID:  "42",
			EventTypeName: "checkout.completed",
			EventPayload:  `{"OrderID":42}`,
		})
		reqBytes, _ := json.Marshal(PushRequest{Message: PushMessage{Data: envelopeBytes}, Subscription: "checkout"})

		envelope, err := ParseEventEnvelope(strings.NewReader(string(reqBytes)))

		assert.NoError(t, err)
		assert.Equal(t, "checkout.checkout.completed.42", envelope.String())
		assert.Equal(t, `{"OrderID":42}`, envelope.EventPayload)
	})

	t.Run("Invalid push request", func(t *testing.T) {
		_, err := ParseEventEnvelope(strings.NewReader(`{`))
		assert.Error(t, err)
	})
}
