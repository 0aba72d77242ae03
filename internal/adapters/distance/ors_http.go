package distance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (o *ORSProvider) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (o *ORSProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation. Anything still
// failing after the last attempt is reported to the caller, which downgrades
// it to a soft provider-unavailable condition.
func (o *ORSProvider) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 250 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := o.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// usageCounter tracks successful calls per process lifetime, per current day
// and per current minute. Windows reset lazily on the next increment.
type usageCounter struct {
	mu          sync.Mutex
	total       int64
	day         time.Time
	dayCount    int64
	minute      time.Time
	minuteCount int64
}

func (u *usageCounter) inc(now time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.total++

	if day := now.Truncate(24 * time.Hour); !day.Equal(u.day) {
		u.day = day
		u.dayCount = 0
	}
	u.dayCount++

	if minute := now.Truncate(time.Minute); !minute.Equal(u.minute) {
		u.minute = minute
		u.minuteCount = 0
	}
	u.minuteCount++
}

func (u *usageCounter) snapshot(now time.Time) (total, today, lastMinute int64) {
	u.mu.Lock()
	defer u.mu.Unlock()

	total = u.total
	if now.Truncate(24 * time.Hour).Equal(u.day) {
		today = u.dayCount
	}
	if now.Truncate(time.Minute).Equal(u.minute) {
		lastMinute = u.minuteCount
	}
	return total, today, lastMinute
}
