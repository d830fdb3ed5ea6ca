package httpapi

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/go-cpf/runtime/metrics"
)

const resultValid = "valid"

// Metrics counts CPF operations served over HTTP. A nil *Metrics is a no-op.
type Metrics struct {
	validations *prometheus.CounterVec
	formats     prometheus.Counter
	requests    *prometheus.CounterVec
}

// NewMetrics registers:
//   - cpf_validations_total{result}  valid or a cpf.Reason* code
//   - cpf_formats_total
//   - cpf_http_requests_total{route,code}
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cpf", Name: "validations_total",
			Help: "CPF validations by result",
		}, []string{"result"}),
		formats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cpf", Name: "formats_total",
			Help: "CPF values formatted",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cpf", Name: "http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		}, []string{"route", "code"}),
	}

	for _, c := range []prometheus.Collector{m.validations, m.formats, m.requests} {
		if err := metrics.Register(reg, c); err != nil {
			return nil, fmt.Errorf("httpapi: register metrics: %w", err)
		}
	}
	return m, nil
}

// observeValidation takes "" for a valid CPF, otherwise the reason code.
func (m *Metrics) observeValidation(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = resultValid
	}
	m.validations.WithLabelValues(reason).Inc()
}

func (m *Metrics) incFormat() {
	if m == nil {
		return
	}
	m.formats.Inc()
}

func (m *Metrics) incRequest(route string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
