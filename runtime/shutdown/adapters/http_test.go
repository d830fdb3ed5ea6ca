package adapters

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-cpf/internal/httpapi"
)

// startAPI serves h through the adapter on a pre-bound listener, so requests
// can be sent as soon as it returns.
func startAPI(t *testing.T, h http.Handler) (*HTTP, string, <-chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ad := &HTTP{Srv: &http.Server{Handler: h}, Lis: ln, NameStr: "api"}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serveErr := make(chan error, 1)
	go func() { serveErr <- ad.Serve(ctx) }()

	return ad, "http://" + ln.Addr().String(), serveErr
}

func postJSON(t *testing.T, url, body string) (*http.Response, error) {
	t.Helper()
	client := http.Client{Timeout: 2 * time.Second}
	return client.Post(url, "application/json", strings.NewReader(body))
}

func TestHTTPAdapter_ServesCPFRoutes(t *testing.T) {
	t.Parallel()

	ad, base, serveErr := startAPI(t, httpapi.New(httpapi.Options{}).Routes())

	resp, err := postJSON(t, base+"/v1/cpf/validate", `{"value":"529.982.247-25"}`)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Valid     bool   `json:"valid"`
		Formatted string `json:"formatted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Valid)
	assert.Equal(t, "529.982.247-25", got.Formatted)

	shCtx, shCancel := context.WithTimeout(context.Background(), time.Second)
	defer shCancel()
	require.NoError(t, ad.GracefulStopWithTimeout(shCtx))

	select {
	case err := <-serveErr:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after graceful stop")
	}
}

func TestHTTPAdapter_GracefulStopWaitsForSubmission(t *testing.T) {
	t.Parallel()

	api := httpapi.New(httpapi.Options{}).Routes()
	entered := make(chan struct{})
	release := make(chan struct{})
	gate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		api.ServeHTTP(w, r)
	})

	ad, base, serveErr := startAPI(t, gate)

	type result struct {
		status int
		err    error
	}
	respCh := make(chan result, 1)
	go func() {
		resp, err := postJSON(t, base+"/v1/cpf/submit", `{"cpf":"11144477735","password":"pw"}`)
		if err != nil {
			respCh <- result{err: err}
			return
		}
		_ = resp.Body.Close()
		respCh <- result{status: resp.StatusCode}
	}()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("submission did not reach the handler")
	}

	shCtx, shCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shCancel()
	stopped := make(chan error, 1)
	go func() { stopped <- ad.GracefulStopWithTimeout(shCtx) }()

	select {
	case err := <-stopped:
		t.Fatalf("graceful stop returned with a request in flight: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	r := <-respCh
	require.NoError(t, r.err)
	assert.Equal(t, http.StatusOK, r.status)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("graceful stop did not finish after the submission completed")
	}
	<-serveErr
}

func TestHTTPAdapter_ForceStopDropsInflight(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	ad, base, serveErr := startAPI(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		close(entered)
		<-release
	}))

	errCh := make(chan error, 1)
	go func() {
		resp, err := postJSON(t, base+"/v1/cpf/format", `{"value":"111"}`)
		if err == nil {
			_ = resp.Body.Close()
		}
		errCh <- err
	}()
	<-entered

	ad.ForceStop()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client was not disconnected by ForceStop")
	}
	<-serveErr
}

func TestHTTPAdapter_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "http", (&HTTP{}).Name())
	assert.Equal(t, "ops", (&HTTP{NameStr: "ops"}).Name())
}

func TestHTTPAdapter_NilServer(t *testing.T) {
	t.Parallel()
	ad := &HTTP{}
	require.ErrorIs(t, ad.Serve(context.Background()), errNilServer)
	require.ErrorIs(t, ad.GracefulStopWithTimeout(context.Background()), errNilServer)
	ad.ForceStop()
}
