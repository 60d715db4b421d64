package myhttpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxFailures = 5
	openStateDuration  = 30 * time.Second
)

var errServerSide = errors.New("upstream server error")

type response struct {
	status int
	body   []byte
}

type jsonHTTPClient struct {
	options    Options
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[response]
}

func newJSONHTTPClient(options Options) *jsonHTTPClient {
	if options.Timeout == 0 {
		options.Timeout = defaultTimeout
	}
	maxFailures := options.MaxConsecutiveFailures
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}

	return &jsonHTTPClient{
		options: options,
		httpClient: &http.Client{
			Timeout:   options.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
			Name:    options.Name,
			Timeout: openStateDuration,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Printf("Circuit-breaker %s: %s -> %s", name, from, to)
			},
		}),
	}
}

func (c *jsonHTTPClient) Send(ctx context.Context, method string, url string, body []byte) (int, []byte, error) {
	resp, err := c.breaker.Execute(func() (response, error) {
		return c.send(ctx, method, url, body)
	})
	if err != nil {
		if errors.Is(err, errServerSide) {
			// server side errors only count for the breaker, the caller interprets the status
			return resp.status, resp.body, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, []byte{}, myerrors.NewUnavailableError(fmt.Errorf("%s unavailable for %s %s: %w", c.options.Name, method, url, err))
		}
		return 0, []byte{}, err
	}

	return resp.status, resp.body, nil
}

func (c *jsonHTTPClient) send(ctx context.Context, method string, url string, body []byte) (response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return response{}, fmt.Errorf("error creating http request for %s %s: %w", method, url, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.options.Username != "" || c.options.Password != "" {
		httpReq.SetBasicAuth(c.options.Username, c.options.Password)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return response{}, fmt.Errorf("error sending %s %s: %w", method, url, err)
	}
	defer httpResp.Body.Close()

	log.Printf("HTTP call to %s: %s %s -> %d", c.options.Name, method, url, httpResp.StatusCode)

	respPayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return response{}, fmt.Errorf("error reading response %s %s: %w", method, url, err)
	}

	resp := response{
		status: httpResp.StatusCode,
		body:   respPayload,
	}
	if httpResp.StatusCode >= http.StatusInternalServerError {
		return resp, errServerSide
	}

	return resp, nil
}
