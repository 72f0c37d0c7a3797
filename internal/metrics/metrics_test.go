package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/hrsync/tcsync/internal/sync"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecordSummaryUpdatesCounters(t *testing.T) {
	r := New()
	r.RecordSummary(sync.Summary{UsersCreated: 2, UsersUpdated: 1, UsersReactivated: 1, UsersDeactivated: 3, GroupsCreated: 4})

	if got := counterValue(t, r.UsersCreatedTotal); got != 2 {
		t.Errorf("UsersCreatedTotal = %v, want 2", got)
	}
	if got := counterValue(t, r.UsersUpdatedTotal); got != 2 {
		t.Errorf("UsersUpdatedTotal = %v, want 2 (updated+reactivated)", got)
	}
	if got := counterValue(t, r.UsersDeactivatedTotal); got != 3 {
		t.Errorf("UsersDeactivatedTotal = %v, want 3", got)
	}
	if got := counterValue(t, r.GroupsCreatedTotal); got != 4 {
		t.Errorf("GroupsCreatedTotal = %v, want 4", got)
	}
}

func TestRecordRequestObservesDuration(t *testing.T) {
	r := New()
	r.RecordRequest("GET", "http://example/users", 200, 50*time.Millisecond)

	metrics, err := r.reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range metrics {
		if mf.GetName() == "sync_api_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected sync_api_requests_total to be present after RecordRequest")
	}
}

func TestPushIfConfiguredNoopWhenURLEmpty(t *testing.T) {
	r := New()
	if err := r.PushIfConfigured(""); err != nil {
		t.Errorf("expected no error for empty gateway URL, got %v", err)
	}
}
