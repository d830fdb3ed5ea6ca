// Package shutdown runs a set of servers and stops them together, gracefully
// first and by force once the shutdown timeout expires.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/go-cpf/logger"
)

// Server is a long-running listener managed by Manager.
type Server interface {
	Serve(ctx context.Context) error
	GracefulStopWithTimeout(ctx context.Context) error
	ForceStop()
	Name() string
}

// Metrics collects shutdown statistics; prommetrics.PromMetrics implements it.
type Metrics interface {
	IncStopTotal(result string)
	ObserveGracefulDuration(d time.Duration)
	IncServeError(name string)
	IncServerStopResult(name, result string)
}

type Config struct {
	// ShutdownTimeout bounds the graceful phase. Zero force-stops immediately.
	ShutdownTimeout time.Duration

	// HandleSignals turns SIGINT and SIGTERM into a graceful stop.
	HandleSignals bool

	// IsNormalError reports Serve errors expected during shutdown.
	// Default: DefaultIsNormalErr.
	IsNormalError func(error) bool

	// Logger defaults to a no-op logger.
	Logger logger.LoggerInterface

	Metrics Metrics
}

type Manager struct {
	cfg     Config
	mu      sync.Mutex
	servers []Server
	stopped bool
}

func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewFromZap(zap.NewNop())
	}
	if cfg.IsNormalError == nil {
		cfg.IsNormalError = DefaultIsNormalErr
	}
	return &Manager{cfg: cfg}
}

// Add registers a server. Nil servers are ignored. Add must not be called
// concurrently with Run.
func (m *Manager) Add(s Server) {
	if s == nil {
		return
	}
	m.servers = append(m.servers, s)
}

// Run serves every registered server and blocks until ctx is done, a signal
// arrives (with HandleSignals) or a server fails. It then calls Stop and
// returns the first non-normal Serve error, or nil.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.HandleSignals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range m.servers {
		g.Go(func() error {
			name := safeName(srv)
			m.cfg.Logger.Infow("serve start", "name", name)
			err := srv.Serve(gctx)
			if err != nil && !m.cfg.IsNormalError(err) && gctx.Err() == nil {
				m.cfg.Logger.Errorw("serve error", "name", name, "err", err)
				if m.cfg.Metrics != nil {
					m.cfg.Metrics.IncServeError(name)
				}
				return err
			}
			m.cfg.Logger.Infow("serve stop", "name", name, "err", errString(err))
			return nil
		})
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- g.Wait() }()

	var groupDone bool
	var groupErr error

	select {
	case <-ctx.Done():
		m.cfg.Logger.Infow("context done; starting graceful stop")
	case err := <-waitCh:
		groupDone, groupErr = true, err
		if err != nil && !m.cfg.IsNormalError(err) {
			m.cfg.Logger.Warnw("group finished with error; starting graceful stop", "err", err)
		} else {
			m.cfg.Logger.Infow("group finished; starting graceful stop")
		}
	}

	m.Stop()

	if groupDone {
		if groupErr != nil && !m.cfg.IsNormalError(groupErr) {
			return groupErr
		}
		return nil
	}

	select {
	case err := <-waitCh:
		if err != nil && !m.cfg.IsNormalError(err) {
			return err
		}
		return nil
	case <-time.After(m.cfg.ShutdownTimeout + 2*time.Second):
		return fmt.Errorf("shutdown: wait group timeout after %s", m.cfg.ShutdownTimeout)
	}
}

// Stop gracefully stops every server within ShutdownTimeout and force-stops
// the ones that do not finish in time. Calls after the first are no-ops.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	started := time.Now()
	var forcedAny atomic.Bool

	deadlineCtx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, srv := range m.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !m.stopOne(deadlineCtx, srv) {
				forcedAny.Store(true)
			}
		}()
	}
	wg.Wait()

	if m.cfg.Metrics != nil {
		m.cfg.Metrics.ObserveGracefulDuration(time.Since(started))
		result := "success"
		if forcedAny.Load() {
			result = "force"
		}
		m.cfg.Metrics.IncStopTotal(result)
	}
}

// stopOne reports whether srv stopped gracefully.
func (m *Manager) stopOne(ctx context.Context, srv Server) bool {
	name := safeName(srv)

	graceDone := make(chan error, 1)
	go func() { graceDone <- srv.GracefulStopWithTimeout(ctx) }()

	var err error
	select {
	case err = <-graceDone:
		if err == nil {
			m.cfg.Logger.Infow("graceful stop done", "name", name)
			m.recordStop(name, "success")
			return true
		}
		m.cfg.Logger.Warnw("graceful stop error; forcing", "name", name, "err", err)
	case <-ctx.Done():
		m.cfg.Logger.Warnw("graceful stop timeout; forcing", "name", name, "err", ctx.Err())
	}

	srv.ForceStop()
	m.recordStop(name, "force")
	return false
}

func (m *Manager) recordStop(name, result string) {
	if m.cfg.Metrics != nil {
		m.cfg.Metrics.IncServerStopResult(name, result)
	}
}

// DefaultIsNormalErr reports whether err is expected while servers close:
// nil, http.ErrServerClosed, context cancellation, or a closed listener.
func DefaultIsNormalErr(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

func safeName(s Server) string {
	if n := s.Name(); n != "" {
		return n
	}
	return "server"
}
