package resilience

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// HTTPClient wraps an http.Client with retry, per-call timeout and circuit
// breaker logic. It is the transport layer under outbound backend calls;
// callers above it see only the final response or error.
type HTTPClient struct {
	Client      *http.Client
	Breaker     *Breaker
	BaseBackoff time.Duration
	MaxAttempts int
	Jitter      float64
	Timeout     time.Duration
}

// Do executes the request applying retry semantics. The request body is
// buffered so attempts can be replayed. Responses with a 5xx status are
// retried; 4xx responses are returned to the caller as-is. When the final
// attempt still yields a 5xx the response is returned rather than swallowed
// so callers can read the error body.
func (cl HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if cl.Client == nil {
		return nil, errors.New("resilience: http client not configured")
	}
	maxAttempts := cl.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if cl.Breaker != nil && !cl.Breaker.Allow() {
			if lastErr == nil {
				lastErr = ErrOpenCircuit
			}
			break
		}
		resp, err := cl.doOnce(ctx, req, body)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			cl.report(true)
			return resp, nil
		}
		if err == nil {
			if attempt == maxAttempts {
				cl.report(false)
				return resp, nil
			}
			lastErr = errors.New(resp.Status)
			_ = resp.Body.Close()
		} else {
			lastErr = err
		}
		cl.report(false)
		if attempt == maxAttempts {
			break
		}
		timer := time.NewTimer(Backoff(cl.BaseBackoff, attempt, cl.Jitter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (cl HTTPClient) report(success bool) {
	if cl.Breaker != nil {
		cl.Breaker.Report(success)
	}
}

func (cl HTTPClient) doOnce(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	callCtx := ctx
	var cancel context.CancelFunc
	timeout := cl.Timeout
	if timeout <= 0 {
		timeout = cl.Client.Timeout
	}
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	attempt := req.Clone(callCtx)
	if body != nil {
		attempt.Body = io.NopCloser(bytes.NewReader(body))
		attempt.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	resp, err := cl.Client.Do(attempt)
	if cancel != nil {
		if err != nil {
			cancel()
			return nil, err
		}
		// The per-attempt context must stay alive until the caller is done
		// with the body; cancelling here would abort the read mid-stream.
		resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	}
	return resp, err
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	reader := req.Body
	if req.GetBody != nil {
		replay, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		reader = replay
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	_ = reader.Close()
	return data, nil
}
