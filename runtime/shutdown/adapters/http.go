// Package adapters plugs concrete servers into shutdown.Manager.
package adapters

import (
	"context"
	"errors"
	"net"
	"net/http"
)

var errNilServer = errors.New("http adapter: Srv is nil")

// HTTP adapts *http.Server to shutdown.Server.
// With Lis set, Serve uses Srv.Serve(Lis); otherwise Srv.ListenAndServe.
type HTTP struct {
	Srv     *http.Server
	Lis     net.Listener
	NameStr string
}

func (h *HTTP) Name() string {
	if h.NameStr == "" {
		return "http"
	}
	return h.NameStr
}

// Serve blocks until ctx is done or the server fails. Request contexts
// derive from ctx.
func (h *HTTP) Serve(ctx context.Context) error {
	if h.Srv == nil {
		return errNilServer
	}

	errCh := make(chan error, 1)
	h.Srv.BaseContext = func(net.Listener) context.Context { return ctx }

	go func() {
		if h.Lis != nil {
			errCh <- h.Srv.Serve(h.Lis)
			return
		}
		errCh <- h.Srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (h *HTTP) GracefulStopWithTimeout(ctx context.Context) error {
	if h.Srv == nil {
		return errNilServer
	}
	return h.Srv.Shutdown(ctx)
}

func (h *HTTP) ForceStop() {
	if h.Srv != nil {
		_ = h.Srv.Close()
	}
}
