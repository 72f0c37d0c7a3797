// Package timecamp implements C3: typed operations over the TimeCamp REST
// API, built on internal/httpclient. All outbound calls are wrapped in a
// circuit breaker so a TimeCamp outage degrades a sync run into fast,
// logged no-ops instead of serially exhausting retries on every remaining
// user (SPEC_FULL.md DOMAIN STACK).
package timecamp

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hrsync/tcsync/internal/errs"
	"github.com/hrsync/tcsync/internal/httpclient"
	"github.com/hrsync/tcsync/internal/retry"
)

// Client is the TimeCamp API adapter.
type Client struct {
	http        *httpclient.Client
	breaker     *gobreaker.CircuitBreaker
	apiKey      string
	baseURL     string
	rootGroupID int
	logger      *zap.Logger
}

// Config configures a Client.
type Config struct {
	APIKey      string
	Domain      string
	RootGroupID int
}

// New constructs a Client. domain is the bare host (e.g. app.timecamp.com);
// the scheme and /third_party/api prefix are added internally.
func New(cfg Config, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "timecamp-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip after 5 consecutive failures — generous enough not to open
			// on a single flaky call, tight enough to stop hammering a down API.
			return counts.ConsecutiveFailures >= 5
		},
		// Only Transport and RateLimited errors count as breaker failures;
		// a per-user rejection (conflict, validation, ...) does not.
		IsSuccessful: func(err error) bool {
			k := errs.Classify(err)
			return err == nil || (k != errs.KindTransport && k != errs.KindRateLimited)
		},
	})

	return &Client{
		http:        httpclient.New(logger, retry.DefaultPolicy()),
		breaker:     breaker,
		apiKey:      cfg.APIKey,
		baseURL:     fmt.Sprintf("https://%s/third_party/api", cfg.Domain),
		rootGroupID: cfg.RootGroupID,
		logger:      logger.Named("timecamp"),
	}
}

// SetMetrics attaches a metrics recorder to the underlying HTTP client; see
// internal/httpclient.Client.SetMetrics.
func (c *Client) SetMetrics(m httpclient.MetricsRecorder) {
	c.http.SetMetrics(m)
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}
}

// call runs req through the circuit breaker and the underlying httpclient,
// translating an open-breaker rejection into errs.ErrTransport so callers
// treat it the same way as any other exhausted-retry failure.
func (c *Client) call(ctx context.Context, req httpclient.Request, out any) error {
	req.Headers = mergeHeaders(c.authHeaders(), req.Headers)

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.http.Do(ctx, req, out)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("%w: timecamp circuit breaker open: %s", errs.ErrTransport, err)
		}
		return err
	}
	return nil
}

func mergeHeaders(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// rawUser is the wire shape of a single element of GET /users.
type rawUser struct {
	UserID          any    `json:"user_id"`
	Email           string `json:"email"`
	AdditionalEmail string `json:"additional_email"`
	DisplayName     string `json:"display_name"`
	ExternalID      string `json:"external_id"`
	GroupID         any    `json:"group_id"`
	RoleID          any    `json:"role_id"`
}

// rawGroup is the wire shape of a single element of GET /group.
type rawGroup struct {
	GroupID  any    `json:"group_id"`
	ParentID any    `json:"parent_id"`
	Name     string `json:"name"`
}
