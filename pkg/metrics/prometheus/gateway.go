// Package prometheus implements the gateway metrics interfaces on top of the
// process-wide Prometheus registry.
package prometheus

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/ingressd/pkg/gateway"
	"github.com/marmos91/ingressd/pkg/metrics"
)

// gatewayMetrics is the Prometheus implementation of metrics.GatewayMetrics.
type gatewayMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	swapTotal prometheus.Counter
}

// NewGatewayMetrics creates a Prometheus-backed GatewayMetrics instance.
// Returns nil if metrics are not enabled.
func NewGatewayMetrics() metrics.GatewayMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	return newGatewayMetrics(metrics.GetRegistry())
}

func newGatewayMetrics(reg prometheus.Registerer) *gatewayMetrics {
	return &gatewayMetrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingressd_requests_total",
				Help: "Total requests dispatched through the gateway by method, status, and outcome",
			},
			[]string{"method", "status", "outcome"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "ingressd_request_duration_milliseconds",
				Help: "Gateway dispatch duration in milliseconds",
				Buckets: []float64{
					1,     // 1ms
					5,     // 5ms
					10,    // 10ms
					50,    // 50ms
					100,   // 100ms
					500,   // 500ms
					1000,  // 1s
					5000,  // 5s
					10000, // 10s
				},
			},
			[]string{"method"},
		),
		inFlight: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "ingressd_requests_in_flight",
				Help: "Requests currently being dispatched",
			},
		),
		swapTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "ingressd_delegate_swaps_total",
				Help: "Total delegate replacements since start",
			},
		),
	}
}

func (m *gatewayMetrics) RecordRequest(method string, status int, outcome string, duration time.Duration) {
	m.requests.WithLabelValues(method, strconv.Itoa(status), outcome).Inc()
	m.duration.WithLabelValues(method).Observe(float64(duration.Milliseconds()))
}

func (m *gatewayMetrics) RecordRequestStart() {
	m.inFlight.Inc()
}

func (m *gatewayMetrics) RecordRequestEnd() {
	m.inFlight.Dec()
}

func (m *gatewayMetrics) RecordSwap() {
	m.swapTotal.Inc()
}

// Instrumenter wraps delegates with request instrumentation. It implements
// the gateway's instrumentation capability and registers under the metrics
// service key.
type Instrumenter struct {
	m       *gatewayMetrics
	wrapped atomic.Bool
}

// NewInstrumenter creates a delegate instrumenter. Returns nil if metrics
// are not enabled, which the gateway treats as "do not wrap".
func NewInstrumenter() *Instrumenter {
	if !metrics.IsEnabled() {
		return nil
	}
	return &Instrumenter{m: newGatewayMetrics(metrics.GetRegistry())}
}

// Wrap returns an instrumented variant of d with the same contract. Each
// wrapped delegate shares the instrumenter's collectors, so metrics survive
// hot swaps. The first wrap is the bootstrap; only later wraps count as
// swaps.
func (i *Instrumenter) Wrap(d gateway.Delegate) gateway.Delegate {
	if i == nil || d == nil {
		return nil
	}
	if !i.wrapped.CompareAndSwap(false, true) {
		i.m.RecordSwap()
	}
	return &instrumentedDelegate{inner: d, m: i.m}
}

// instrumentedDelegate forwards the delegate contract and measures every
// dispatch.
type instrumentedDelegate struct {
	inner gateway.Delegate
	m     *gatewayMetrics
}

func (d *instrumentedDelegate) Init(cfg gateway.ComponentConfig) error {
	return d.inner.Init(cfg)
}

func (d *instrumentedDelegate) Dispatch(w http.ResponseWriter, r *http.Request, next http.Handler) error {
	start := time.Now()
	d.m.RecordRequestStart()
	defer d.m.RecordRequestEnd()

	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	err := d.inner.Dispatch(ww, r, next)

	status := ww.Status()
	outcome := "success"
	if err != nil {
		outcome = "failure"
		if status == 0 {
			status = http.StatusInternalServerError
		}
	} else if status == 0 {
		status = http.StatusOK
	}

	d.m.RecordRequest(r.Method, status, outcome, time.Since(start))
	return err
}

func (d *instrumentedDelegate) Destroy() {
	d.inner.Destroy()
}
