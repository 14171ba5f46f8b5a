package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.RecordUpstreamPage("200")
	m.RecordRefresh("success", 1)
	m.RecordLookup("hit", 0)
	m.RecordSnapshotSize(3)
	m.RecordArbScan("ok")
	if m.Registry() != nil {
		t.Fatal("nil metrics should have no registry")
	}
}

func TestRecordRefresh(t *testing.T) {
	m := New()
	m.RecordRefresh("success", 2)
	m.RecordRefresh("success", 3)
	m.RecordRefresh("failure_stale", 1)

	if got := testutil.ToFloat64(m.RefreshTotal.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successful refreshes, got %v", got)
	}
	if got := testutil.ToFloat64(m.RefreshTotal.WithLabelValues("failure_stale")); got != 1 {
		t.Fatalf("expected 1 stale failure, got %v", got)
	}
}

func TestSeparateRegistries(t *testing.T) {
	// two instances must not collide on registration
	a := New()
	b := New()
	a.RecordUpstreamPage("200")
	if got := testutil.ToFloat64(b.UpstreamPages.WithLabelValues("200")); got != 0 {
		t.Fatalf("registries leaked: %v", got)
	}
}
