package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/AlibekovAA/credential-service/internal/common/constants"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// Run serves on server.Addr until ctx is cancelled, then stops accepting
// keep-alives, runs hooks within the drain period and shuts down.
func Run(ctx context.Context, server *http.Server, log *logger.Logger, serviceName string, hooks ...ShutdownHook) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}
	return Serve(ctx, server, ln, log, serviceName, hooks...)
}

func Serve(ctx context.Context, server *http.Server, ln net.Listener, log *logger.Logger, serviceName string, hooks ...ShutdownHook) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("%s service listening on %s", serviceName, ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("%s service: %w", serviceName, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down %s service...", serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	drainCtx, drainCancel := context.WithTimeout(shutdownCtx, constants.DrainTimeout)
	defer drainCancel()

	log.Infof("%s service: stopping accepting new connections (drain period: %v)", serviceName, constants.DrainTimeout)
	server.SetKeepAlivesEnabled(false)

	for i, hook := range hooks {
		if err := hook(drainCtx); err != nil {
			log.Errorf("%s service: shutdown hook %d failed: %v", serviceName, i, err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("%s service forced to shutdown: %v", serviceName, err)
		return fmt.Errorf("shutdown %s service: %w", serviceName, err)
	}

	<-serveErr
	log.Infof("%s service stopped gracefully", serviceName)
	return nil
}
