// Package httpclient implements C2: a small JSON-over-HTTP client with
// bounded retries, rate-limit handling, and per-endpoint retry policies. It
// has no concurrency primitives of its own — callers (internal/timecamp)
// serialise their calls, per spec.md §5.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hrsync/tcsync/internal/errs"
	"github.com/hrsync/tcsync/internal/retry"
)

// DefaultTimeout is the per-request default of spec.md §4.C2.
const DefaultTimeout = 60 * time.Second

// Request describes one JSON HTTP call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   url.Values
	Body    any // marshaled as JSON if non-nil

	// RetryableStatus is an additional set of HTTP status codes (besides 429)
	// that should be retried for this specific call — used by the TimeCamp
	// adapter's AddGroup operation to treat 403 as transient (spec.md
	// §4.C3, Decision D2 in SPEC_FULL.md gates this further by body shape).
	RetryableStatus map[int]bool

	// Timeout overrides DefaultTimeout for this call, if non-zero.
	Timeout time.Duration
}

// MetricsRecorder observes one completed HTTP attempt. internal/metrics'
// Registry satisfies this structurally, so this package never imports it —
// the wiring happens once in cmd/ via SetMetrics.
type MetricsRecorder interface {
	RecordRequest(method, url string, status int, duration time.Duration)
}

// Client performs JSON HTTP calls with retry/backoff.
type Client struct {
	http    *http.Client
	policy  retry.Policy
	logger  *zap.Logger
	metrics MetricsRecorder
}

// New creates a Client that retries under policy. The underlying
// http.Client has no timeout of its own; per-request timeouts are applied
// via context.
func New(logger *zap.Logger, policy retry.Policy) *Client {
	return &Client{
		http:   &http.Client{},
		policy: policy,
		logger: logger.Named("httpclient"),
	}
}

// SetMetrics attaches a MetricsRecorder; every subsequent Do call reports
// each HTTP attempt through it. Optional — a nil recorder (the default)
// means no metrics are recorded.
func (c *Client) SetMetrics(m MetricsRecorder) {
	c.metrics = m
}

// Do executes req, retrying on transport errors, HTTP 429, and any status
// in req.RetryableStatus, and decodes a 2xx JSON response body into out (if
// out is non-nil). A Retry-After header, when present on a retryable
// response, overrides the computed backoff delay.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	var bodyBytes []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request body: %s", errs.ErrInternal, err)
		}
		bodyBytes = b
	}

	return retry.Do(ctx, c.policy, func(ctx context.Context, attempt uint64) error {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()

		httpReq, err := c.buildRequest(callCtx, req, bodyBytes)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(httpReq)
		if err != nil {
			c.logger.Warn("transport error",
				zap.String("method", req.Method), zap.String("url", req.URL),
				zap.Uint64("attempt", attempt), zap.Error(err))
			c.recordMetric(req, 0, start)
			return retry.RetryableError(fmt.Errorf("%w: %s", errs.ErrTransport, err))
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			c.recordMetric(req, resp.StatusCode, start)
			return retry.RetryableError(fmt.Errorf("%w: failed to read response body: %s", errs.ErrTransport, err))
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.recordMetric(req, resp.StatusCode, start)
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return fmt.Errorf("%w: failed to decode response body: %s", errs.ErrInternal, err)
				}
			}
			return nil
		}

		c.recordMetric(req, resp.StatusCode, start)

		classified := classifyStatus(resp.StatusCode, respBody)

		if c.shouldRetry(resp.StatusCode, classified, req.RetryableStatus) {
			c.logger.Warn("retryable HTTP status",
				zap.String("method", req.Method), zap.String("url", req.URL),
				zap.Int("status", resp.StatusCode), zap.Uint64("attempt", attempt))
			if d, ok := retryAfter(resp.Header); ok {
				return retry.WithOverrideDelay(classified, d)
			}
			return retry.RetryableError(classified)
		}

		return classified
	})
}

func (c *Client) recordMetric(req Request, status int, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordRequest(req.Method, req.URL, status, time.Since(start))
}

func (c *Client) buildRequest(ctx context.Context, req Request, body []byte) (*http.Request, error) {
	u := req.URL
	if len(req.Query) > 0 {
		u = u + "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %s", errs.ErrInternal, err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// shouldRetry decides whether a non-2xx response is worth retrying. A plain
// 429 always is. A status in the caller's RetryableStatus set (e.g. 403 on
// TimeCamp's AddGroup) is retried only when classifyStatus did NOT resolve
// it to a hard permission error — otherwise a genuine permission problem
// would be retried into the ground for no benefit (SPEC_FULL.md Decision D2).
func (c *Client) shouldRetry(status int, classified error, extra map[int]bool) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if !extra[status] {
		return false
	}
	return errs.Classify(classified) != errs.KindPermissionDenied
}

// retryAfter parses the Retry-After header as either delta-seconds or an
// HTTP-date, returning (0, false) if absent or unparseable.
func retryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// classifyStatus maps an HTTP status code (and, for 403, the response body)
// to the errs taxonomy.
func classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP 429", errs.ErrRateLimited)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: HTTP 401", errs.ErrAuth)
	case http.StatusForbidden:
		if looksRateLimited(body) {
			return fmt.Errorf("%w: HTTP 403 (rate-limit shaped body)", errs.ErrRateLimited)
		}
		return fmt.Errorf("%w: HTTP 403", errs.ErrPermissionDenied)
	case http.StatusNotFound:
		return fmt.Errorf("%w: HTTP 404", errs.ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%w: HTTP 409", errs.ErrConflict)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: HTTP %d", errs.ErrValidation, status)
	default:
		return fmt.Errorf("%w: HTTP %d", errs.ErrTransport, status)
	}
}

// looksRateLimited implements SPEC_FULL.md Decision D2: a 403 is treated as
// a disguised rate limit only when the body carries TimeCamp's documented
// throttling shape, distinguishing it from a genuine permission error.
func looksRateLimited(body []byte) bool {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false
	}
	switch parsed.Message {
	case "Too many requests", "Rate limit exceeded":
		return true
	default:
		return false
	}
}
