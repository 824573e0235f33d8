package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := NewServer(DefaultServerConfig("0"), handler)
	log := logger.NewWithWriter(io.Discard, "test", "debug")

	ctx, cancel := context.WithCancel(context.Background())
	hookCalled := make(chan struct{}, 1)
	done := make(chan error, 1)

	go func() {
		done <- Serve(ctx, srv, ln, log, "test", func(context.Context) error {
			hookCalled <- struct{}{}
			return nil
		})
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	select {
	case <-hookCalled:
	default:
		t.Error("shutdown hook was not called")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := &http.Server{Addr: ln.Addr().String()}
	err = Run(context.Background(), srv, logger.NewWithWriter(io.Discard, "test", "debug"), "test")
	assert.Error(t, err)
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig("3000")
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Positive(t, cfg.ReadHeaderTimeout)
}
