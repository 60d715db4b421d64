package myhttpclient

import (
	"context"
	"errors"
	"net"
	"time"
)

//go:generate mockgen -source=api.go -package myhttpclient -destination httpsender_mock.go HTTPSender
type HTTPSender interface {
	Send(c context.Context, method string, url string, body []byte) (int, []byte, error)
}

type Options struct {
	// Name identifies the upstream in logs and in the circuit-breaker
	Name     string
	Username string
	Password string
	Timeout  time.Duration
	// MaxConsecutiveFailures opens the circuit-breaker, zero means 5
	MaxConsecutiveFailures uint32
}

func New(options Options) HTTPSender {
	return newJSONHTTPClient(options)
}

// IsTimeout reports whether the call was aborted by a deadline (context or client timeout)
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
