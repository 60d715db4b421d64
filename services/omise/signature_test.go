package omise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"object":"event","key":"charge.complete"}`)
	signature := Sign(body, "whsec")

	t.Run("valid", func(t *testing.T) {
		assert.True(t, VerifyWebhookSignature(body, signature, "whsec"))
	})
	t.Run("tampered body", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature([]byte(`{"object":"event","key":"charge.create"}`), signature, "whsec"))
	})
	t.Run("other secret", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, signature, "other"))
	})
	t.Run("no secret configured", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, signature, ""))
	})
	t.Run("missing signature", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, "", "whsec"))
	})
	t.Run("signature not hex", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, "not-a-signature", "whsec"))
	})
}
