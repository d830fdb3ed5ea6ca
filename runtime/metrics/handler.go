// Package metrics serves the operational endpoints of a service:
// Prometheus exposition plus liveness and readiness probes.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vortex-fintech/go-cpf/logger"
)

const (
	healthCheckConcurrencyLimit = 64
	defaultCheckTimeout         = 500 * time.Millisecond
)

// CheckFunc must return promptly once ctx is done; stuck checks hold one of
// healthCheckConcurrencyLimit slots.
type CheckFunc func(ctx context.Context) error

type Options struct {
	Registry *prometheus.Registry
	Register func(reg prometheus.Registerer) error

	Health CheckFunc
	Ready  CheckFunc

	MetricsPath string
	HealthPath  string
	ReadyPath   string

	CheckTimeout time.Duration

	// Log receives registration failures and one line per probe request.
	Log logger.LoggerInterface
}

// New builds the handler. The returned registry is the one metrics are
// exposed from, so callers can register their own collectors later.
func New(opts Options) (http.Handler, *prometheus.Registry, error) {
	metricsPath := normalizePath(opts.MetricsPath, "/metrics")
	healthPath := normalizePath(opts.HealthPath, "/health")
	readyPath := normalizePath(opts.ReadyPath, "/ready")

	timeout := opts.CheckTimeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	for name, c := range map[string]prometheus.Collector{
		"process":    collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		"go":         collectors.NewGoCollector(),
		"build_info": collectors.NewBuildInfoCollector(),
	} {
		if err := Register(reg, c); err != nil {
			return nil, nil, fmt.Errorf("metrics: register %s: %w", name, err)
		}
	}
	if opts.Register != nil {
		if err := opts.Register(reg); err != nil {
			return nil, nil, fmt.Errorf("metrics: register custom: %w", err)
		}
	}

	sem := make(chan struct{}, healthCheckConcurrencyLimit)
	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})

	mux := http.NewServeMux()
	mux.Handle(metricsPath, withLog(getOnly(metricsHandler), metricsPath, opts.Log))
	mux.Handle(healthPath, withLog(getOnly(checkHandler(opts.Health, timeout, sem)), healthPath, opts.Log))
	mux.Handle(readyPath, withLog(getOnly(checkHandler(opts.Ready, timeout, sem)), readyPath, opts.Log))

	return mux, reg, nil
}

// Register registers c, treating an identical existing collector as success.
func Register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

func getOnly(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, "method not allowed", http.StatusMethodNotAllowed, r.Method == http.MethodHead)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func checkHandler(check CheckFunc, timeout time.Duration, sem chan struct{}) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headOnly := r.Method == http.MethodHead
		if check == nil {
			writeOK(w, headOnly)
			return
		}

		select {
		case sem <- struct{}{}:
		default:
			w.Header().Set("Retry-After", "1")
			writeError(w, "health check busy", http.StatusServiceUnavailable, headOnly)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			defer func() { <-sem }()
			done <- check(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				writeError(w, err.Error(), http.StatusServiceUnavailable, headOnly)
				return
			}
			writeOK(w, headOnly)
		case <-ctx.Done():
			w.Header().Set("Retry-After", "1")
			writeError(w, "health check timeout", http.StatusServiceUnavailable, headOnly)
		}
	})
}

func normalizePath(p, def string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		p = def
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return p
}

func writeOK(w http.ResponseWriter, headOnly bool) {
	w.WriteHeader(http.StatusOK)
	if !headOnly {
		_, _ = w.Write([]byte("OK"))
	}
}

func writeError(w http.ResponseWriter, msg string, status int, headOnly bool) {
	if headOnly {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		return
	}
	http.Error(w, msg, status)
}

func withLog(h http.Handler, path string, log logger.LoggerInterface) http.Handler {
	if log == nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		h.ServeHTTP(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		kv := []any{"path", path, "method", r.Method, "status", sw.status, "duration", time.Since(start)}
		switch {
		case sw.status < 400:
			log.Debugw("ops request", kv...)
		case sw.status < 500:
			log.Warnw("ops request", kv...)
		default:
			log.Errorw("ops request", kv...)
		}
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusWriter) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(p)
}

func (s *statusWriter) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
