package omise

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const SignatureHeader = "x-omise-signature"

func VerifyWebhookSignature(rawBody []byte, signature string, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	received, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	return hmac.Equal(received, computeSignature(rawBody, secret))
}

// Sign produces the signature the gateway puts in the signature header
func Sign(rawBody []byte, secret string) string {
	return hex.EncodeToString(computeSignature(rawBody, secret))
}

func computeSignature(rawBody []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return mac.Sum(nil)
}
