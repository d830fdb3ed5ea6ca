// Command cpfd serves CPF formatting and validation over HTTP, with a
// separate ops listener for /metrics, /health and /ready.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/go-cpf/internal/httpapi"
	"github.com/vortex-fintech/go-cpf/logger"
	"github.com/vortex-fintech/go-cpf/runtime/metrics"
	"github.com/vortex-fintech/go-cpf/runtime/shutdown"
	"github.com/vortex-fintech/go-cpf/runtime/shutdown/adapters"
	"github.com/vortex-fintech/go-cpf/runtime/shutdown/prommetrics"
)

const readHeaderTimeout = 5 * time.Second

var errNotReady = errors.New("not ready")

func main() {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ServiceName, cfg.Env)
	defer log.SafeSync()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Errorw("cpfd stopped with error", "err", err)
		log.SafeSync()
		os.Exit(1)
	}
	log.Infow("cpfd stopped")
}

func run(ctx context.Context, cfg Config, log logger.LoggerInterface) error {
	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	return a.run(ctx)
}

// app holds bound listeners and the manager that serves them. Listeners are
// bound in newApp, so once run marks the app ready the API accepts
// connections.
type app struct {
	mgr   *shutdown.Manager
	apiLn net.Listener
	opsLn net.Listener
	ready atomic.Bool
	log   logger.LoggerInterface
	cfg   Config
}

func newApp(cfg Config, log logger.LoggerInterface) (_ *app, err error) {
	reg := prometheus.NewRegistry()

	apiMetrics, err := httpapi.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	shutdownMetrics, err := prommetrics.New(reg, "cpfd", "shutdown")
	if err != nil {
		return nil, err
	}

	a := &app{log: log, cfg: cfg}
	a.mgr = shutdown.New(shutdown.Config{
		ShutdownTimeout: cfg.ShutdownTimeout,
		HandleSignals:   true,
		Logger:          log,
		Metrics:         shutdownMetrics,
	})

	a.apiLn, err = net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("cpfd: listen api: %w", err)
	}
	defer func() {
		if err != nil {
			_ = a.apiLn.Close()
		}
	}()

	api := httpapi.New(httpapi.Options{
		Log:          log,
		Metrics:      apiMetrics,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	a.mgr.Add(&adapters.HTTP{
		NameStr: "api",
		Lis:     a.apiLn,
		Srv: &http.Server{
			Handler:           api.Routes(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	})

	if cfg.MetricsAddr == "" {
		return a, nil
	}

	ops, _, err := metrics.New(metrics.Options{
		Registry: reg,
		Log:      log,
		Ready:    a.readyCheck,
	})
	if err != nil {
		return nil, err
	}
	a.opsLn, err = net.Listen("tcp", cfg.MetricsAddr)
	if err != nil {
		return nil, fmt.Errorf("cpfd: listen ops: %w", err)
	}
	a.mgr.Add(&adapters.HTTP{
		NameStr: "ops",
		Lis:     a.opsLn,
		Srv: &http.Server{
			Handler:           ops,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	})
	return a, nil
}

func (a *app) readyCheck(context.Context) error {
	if !a.ready.Load() {
		return errNotReady
	}
	return nil
}

func (a *app) run(ctx context.Context) error {
	kv := []any{"http_addr", a.apiLn.Addr().String(), "env", a.cfg.Env}
	if a.opsLn != nil {
		kv = append(kv, "metrics_addr", a.opsLn.Addr().String())
	}
	a.log.Infow("cpfd starting", kv...)

	a.ready.Store(true)
	defer a.ready.Store(false)

	return a.mgr.Run(ctx)
}
