package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/cart", 200, 25*time.Millisecond)
	m.Observe("GET", "/api/v1/cart", 200, 30*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/cart", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "unmatched", "500")); got != 1 {
		t.Fatalf("expected unmatched route label, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Second)

	var j *JobMetrics
	j.IncSuccess("sweep")
	j.IncFailure("sweep")
	j.ObserveDuration("sweep", time.Second)
}
