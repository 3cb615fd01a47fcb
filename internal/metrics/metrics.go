package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics counts the outcomes of the order workflows. A nil
// *OrderMetrics is valid and records nothing, so services can run without
// a registry in tests.
type OrderMetrics struct {
	placed          prometheus.Counter
	finalized       prometheus.Counter
	cancelled       prometheus.Counter
	stockRejections prometheus.Counter
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	m := &OrderMetrics{
		placed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall",
			Name:      "orders_placed_total",
			Help:      "Orders successfully placed.",
		}),
		finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall",
			Name:      "orders_finalized_total",
			Help:      "Orders moved to pending payment.",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall",
			Name:      "orders_cancelled_total",
			Help:      "Orders cancelled with stock restored.",
		}),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mall",
			Name:      "order_stock_rejections_total",
			Help:      "Placements rejected for insufficient stock.",
		}),
	}
	reg.MustRegister(m.placed, m.finalized, m.cancelled, m.stockRejections)
	return m
}

func (m *OrderMetrics) OrderPlaced() {
	if m != nil {
		m.placed.Inc()
	}
}

func (m *OrderMetrics) OrderFinalized() {
	if m != nil {
		m.finalized.Inc()
	}
}

func (m *OrderMetrics) OrderCancelled() {
	if m != nil {
		m.cancelled.Inc()
	}
}

func (m *OrderMetrics) StockRejected() {
	if m != nil {
		m.stockRejections.Inc()
	}
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMetrics instruments the HTTP surface: request counts by status and
// latency by path.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mall",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mall",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "path"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *HTTPMetrics) Observe(method, path, status string, durationMS float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, status).Inc()
	m.latency.WithLabelValues(method, path).Observe(durationMS)
}
