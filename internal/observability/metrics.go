package observability

import (
	"io"
	"net/http"
	"strings"
	"time"
)

// Metrics is the small set of counters the portfolio backend exports on
// /metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests    *CounterVec
	apiLatency     *HistogramVec
	apiInflight    *Gauge
	assistRequests *CounterVec
	assistLatency  *HistogramVec
	catalogWrites  *CounterVec
	contactSent    *CounterVec
	uploads        *CounterVec
	rateLimited    *CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests:    NewCounterVec("portfolio_api_requests_total", "HTTP requests by method, route and status.", []string{"method", "route", "status"}),
		apiLatency:     NewHistogramVec("portfolio_api_request_duration_seconds", "HTTP request latency.", []string{"method", "route"}, nil),
		apiInflight:    NewGauge("portfolio_api_inflight_requests", "HTTP requests currently being served."),
		assistRequests: NewCounterVec("portfolio_assist_requests_total", "Assist completions by engine, action and outcome.", []string{"engine", "action", "status"}),
		assistLatency:  NewHistogramVec("portfolio_assist_duration_seconds", "Assist backend latency.", []string{"engine"}, []float64{0.5, 1, 2, 5, 10, 30, 60}),
		catalogWrites:  NewCounterVec("portfolio_catalog_writes_total", "Catalog mutations by operation and outcome.", []string{"op", "status"}),
		contactSent:    NewCounterVec("portfolio_contact_messages_total", "Contact submissions by delivery outcome.", []string{"status"}),
		uploads:        NewCounterVec("portfolio_uploads_total", "Image uploads by outcome.", []string{"status"}),
		rateLimited:    NewCounterVec("portfolio_rate_limited_total", "Requests rejected by the rate limiter.", []string{"scope"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	type writer interface{ WritePrometheus(io.Writer) error }
	for _, mw := range []writer{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.assistRequests, m.assistLatency,
		m.catalogWrites, m.contactSent, m.uploads, m.rateLimited,
	} {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(strings.ToUpper(method), route, status)
	m.apiLatency.Observe(dur.Seconds(), strings.ToUpper(method), route)
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAssist(engine, action, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.assistRequests.Inc(engine, action, status)
	m.assistLatency.Observe(dur.Seconds(), engine)
}

func (m *Metrics) IncCatalogWrite(op, status string) {
	if m != nil {
		m.catalogWrites.Inc(op, status)
	}
}

func (m *Metrics) IncContact(status string) {
	if m != nil {
		m.contactSent.Inc(status)
	}
}

func (m *Metrics) IncUpload(status string) {
	if m != nil {
		m.uploads.Inc(status)
	}
}

func (m *Metrics) IncRateLimited(scope string) {
	if m != nil {
		m.rateLimited.Inc(scope)
	}
}

// CatalogWrites exposes the catalog counter for assertions.
func (m *Metrics) CatalogWrites(op, status string) float64 {
	if m == nil {
		return 0
	}
	return m.catalogWrites.Value(op, status)
}
