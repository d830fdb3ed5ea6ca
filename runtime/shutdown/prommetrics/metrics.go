// Package prommetrics implements shutdown.Metrics on Prometheus.
package prommetrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/go-cpf/runtime/metrics"
)

type PromMetrics struct {
	stopTotal        *prometheus.CounterVec
	serveErrors      *prometheus.CounterVec
	serverStopResult *prometheus.CounterVec
	gracefulDuration prometheus.Histogram
}

// New registers:
//   - {ns}_{sub}_graceful_stop_total{result}
//   - {ns}_{sub}_server_serve_errors_total{name}
//   - {ns}_{sub}_server_stop_result_total{name,result}
//   - {ns}_{sub}_graceful_duration_seconds
func New(reg prometheus.Registerer, namespace, subsystem string) (*PromMetrics, error) {
	if reg == nil {
		return nil, errors.New("prommetrics: registerer is nil")
	}

	pm := &PromMetrics{
		stopTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "graceful_stop_total", Help: "Total graceful stops by result",
		}, []string{"result"}),

		serveErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "server_serve_errors_total", Help: "Non-normal Serve errors by server name",
		}, []string{"name"}),

		serverStopResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "server_stop_result_total", Help: "Per-server graceful stop result",
		}, []string{"name", "result"}),

		gracefulDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "graceful_duration_seconds",
			Help:    "Duration of the global graceful stop",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
	}

	for _, c := range []prometheus.Collector{pm.stopTotal, pm.serveErrors, pm.serverStopResult, pm.gracefulDuration} {
		if err := metrics.Register(reg, c); err != nil {
			return nil, fmt.Errorf("prommetrics: %w", err)
		}
	}
	return pm, nil
}

func (p *PromMetrics) IncStopTotal(result string) {
	p.stopTotal.WithLabelValues(result).Inc()
}

func (p *PromMetrics) ObserveGracefulDuration(d time.Duration) {
	p.gracefulDuration.Observe(d.Seconds())
}

func (p *PromMetrics) IncServeError(name string) {
	p.serveErrors.WithLabelValues(name).Inc()
}

func (p *PromMetrics) IncServerStopResult(name, result string) {
	p.serverStopResult.WithLabelValues(name, result).Inc()
}
