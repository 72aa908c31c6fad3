package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/catalogview/internal/product/domain"
)

// Metrics records gateway calls. It is a domain.Observer.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// New registers the catalog client collectors on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_gateway_requests_total",
		Help: "Catalog API calls by operation and status code.",
	}, []string{"op", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_gateway_request_duration_seconds",
		Help:    "Catalog API call latency per operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_gateway_failures_total",
		Help: "Failed catalog API calls by operation and error kind.",
	}, []string{"op", "kind"})

	for _, c := range []prometheus.Collector{
		requests,
		duration,
		failures,
		collectors.NewGoCollector(),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &Metrics{requests: requests, duration: duration, failures: failures}, nil
}

var _ domain.Observer = (*Metrics)(nil)

func (m *Metrics) RequestStarted(ctx context.Context, _ domain.RequestInfo) context.Context {
	return ctx
}

func (m *Metrics) RequestFinished(_ context.Context, out domain.Outcome) {
	if m == nil {
		return
	}
	op := sanitizeLabel(out.Op)
	m.requests.WithLabelValues(op, statusLabel(out.Status)).Inc()
	m.duration.WithLabelValues(op).Observe(out.Duration.Seconds())
	if out.Err != nil {
		m.failures.WithLabelValues(op, domain.KindOf(out.Err).Error()).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func statusLabel(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}

func sanitizeLabel(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}
