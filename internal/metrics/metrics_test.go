package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOrderMetrics(t *testing.T) {
	t.Parallel()

	m := NewOrderMetrics(prometheus.NewRegistry())

	m.OrderPlaced()
	m.OrderPlaced()
	m.OrderFinalized()
	m.OrderCancelled()
	m.StockRejected()

	if got := testutil.ToFloat64(m.placed); got != 2 {
		t.Fatalf("expected 2 placed, got %v", got)
	}
	if got := testutil.ToFloat64(m.finalized); got != 1 {
		t.Fatalf("expected 1 finalized, got %v", got)
	}
	if got := testutil.ToFloat64(m.cancelled); got != 1 {
		t.Fatalf("expected 1 cancelled, got %v", got)
	}
	if got := testutil.ToFloat64(m.stockRejections); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
}

func TestOrderMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var m *OrderMetrics
	m.OrderPlaced()
	m.OrderFinalized()
	m.OrderCancelled()
	m.StockRejected()
}

func TestHTTPMetrics(t *testing.T) {
	t.Parallel()

	m := NewHTTPMetrics(prometheus.NewRegistry())
	m.Observe("GET", "/health", "200", 3.2)
	m.Observe("GET", "/health", "200", 1.1)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/health", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}

	var nilMetrics *HTTPMetrics
	nilMetrics.Observe("GET", "/", "200", 1)
}
