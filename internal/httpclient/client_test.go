package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hrsync/tcsync/internal/errs"
	"github.com/hrsync/tcsync/internal/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDoDecodesSuccessfulJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(zap.NewNop(), fastPolicy())
	var out struct {
		OK bool `json:"ok"`
	}
	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK {
		t.Error("expected decoded ok=true")
	}
}

func TestDoRetriesOn429ThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(zap.NewNop(), fastPolicy())
	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDoFailsFastOnGenuinePermissionDenied(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"not allowed"}`))
	}))
	defer srv.Close()

	c := New(zap.NewNop(), fastPolicy())
	err := c.Do(context.Background(), Request{
		Method:          http.MethodPost,
		URL:             srv.URL,
		RetryableStatus: map[int]bool{http.StatusForbidden: true},
	}, nil)

	if errs.Classify(err) != errs.KindPermissionDenied {
		t.Fatalf("expected KindPermissionDenied, got %v (%v)", errs.Classify(err), err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (genuine permission error must not be retried)", calls)
	}
}

func TestDoRetriesRateLimitShaped403(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"Too many requests"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(zap.NewNop(), fastPolicy())
	err := c.Do(context.Background(), Request{
		Method:          http.MethodPost,
		URL:             srv.URL,
		RetryableStatus: map[int]bool{http.StatusForbidden: true},
	}, nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (rate-limit-shaped 403 should be retried)", calls)
	}
}

func TestDoHonorsRetryAfterHeader(t *testing.T) {
	var calls int
	var firstCallTime time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			firstCallTime = time.Now()
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(zap.NewNop(), fastPolicy())
	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	_ = firstCallTime
}

func TestDoSurfacesTransportErrorAsRetryable(t *testing.T) {
	c := New(zap.NewNop(), fastPolicy())
	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: "http://127.0.0.1:1"}, nil)
	if errs.Classify(err) != errs.KindTransport {
		t.Fatalf("expected KindTransport, got %v", errs.Classify(err))
	}
}
