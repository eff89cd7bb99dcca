// Package backend is the typed REST client for the pharmacy API. Every call
// goes through a single door: one bounded-timeout HTTP client, one breaker,
// one error taxonomy. Nothing here retries; failures are terminal per attempt
// and surfaced to the caller.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// DefaultTimeout bounds every backend call so a hang surfaces as
// NetworkUnavailable instead of a perpetual loading state.
const DefaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *Metrics
	logger  zerolog.Logger
}

// New creates a backend client rooted at baseURL. A zero timeout falls back
// to DefaultTimeout. metrics may be nil.
func New(baseURL string, timeout time.Duration, metrics *Metrics, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		metrics: metrics,
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "pharmacy-backend",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// Only transport failures trip the breaker. A 4xx is the backend
		// answering, not the backend being down.
		IsSuccessful: func(err error) bool {
			return err == nil || !IsKind(err, KindNetworkUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if metrics != nil {
				metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			}
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("backend breaker state change")
		},
	})
	return c
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// NormalizeBearer renders the Authorization header value for token: exactly
// "Bearer <token>" with a single separating space. Stored tokens observed in
// the wild sometimes arrive already prefixed ("BearerXYZ", "Bearer Bearer X");
// any number of leading Bearer markers is stripped before re-prefixing.
func NormalizeBearer(token string) string {
	t := strings.TrimSpace(token)
	for {
		if len(t) >= 6 && strings.EqualFold(t[:6], "bearer") {
			t = strings.TrimSpace(t[6:])
			continue
		}
		break
	}
	if t == "" {
		return ""
	}
	return "Bearer " + t
}

// Do issues one JSON request against the backend. token may be empty for
// unauthenticated calls. req (when non-nil) is JSON-encoded; a 2xx body is
// decoded into res when res is non-nil. All failures come back as *Error.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, token string, req, res any) error {
	var body io.Reader
	headers := http.Header{}
	if req != nil {
		b := &bytes.Buffer{}
		if err := json.NewEncoder(b).Encode(req); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = b
		headers.Set("Content-Type", "application/json")
	}
	return c.roundTrip(ctx, method, path, params, token, body, headers, res)
}

// PostForm issues a form-encoded POST. The token endpoints require
// application/x-www-form-urlencoded rather than JSON; this is a backend
// contract, not a style choice.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, res any) error {
	headers := http.Header{}
	headers.Set("Content-Type", "application/x-www-form-urlencoded")
	body := strings.NewReader(form.Encode())
	return c.roundTrip(ctx, http.MethodPost, path, nil, "", body, headers, res)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, params url.Values, token string, body io.Reader, headers http.Header, res any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		httpReq.Header.Set("Authorization", NormalizeBearer(token))
	}

	start := time.Now()
	_, err = c.breaker.Execute(func() (any, error) {
		return nil, c.execute(httpReq, res)
	})
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = Unavailable("the pharmacy backend is unreachable")
		}
		outcome = KindOf(err).String()
	}
	c.metrics.observe(method, outcome, elapsed.Seconds())

	evt := c.logger.Debug()
	if err != nil {
		evt = c.logger.Warn().Err(err)
	}
	evt.Str("method", method).Str("path", path).Dur("latency", elapsed).Msg("backend call")
	return err
}

func (c *Client) execute(req *http.Request, res any) error {
	httpRes, err := c.httpc.Do(req)
	if err != nil {
		// No response at all: timeout, refused connection, cancelled context.
		return Unavailable(err.Error())
	}
	defer httpRes.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpRes.Body, 1<<20))
	if err != nil {
		return Unavailable(err.Error())
	}

	if httpRes.StatusCode >= 200 && httpRes.StatusCode < 300 {
		if res != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, res); err != nil {
				return &Error{Kind: KindUnknown, Status: httpRes.StatusCode,
					Detail: fmt.Sprintf("malformed response body: %v", err)}
			}
		}
		return nil
	}
	return errorFromResponse(httpRes.StatusCode, raw)
}
