package main

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	authhttp "github.com/AlibekovAA/credential-service/internal/auth/http"
	"github.com/AlibekovAA/credential-service/internal/common/bootstrap"
	commonhttp "github.com/AlibekovAA/credential-service/internal/common/http"
	srv "github.com/AlibekovAA/credential-service/internal/common/server"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "listen port (overrides AUTH_HTTP_PORT and PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewAuthApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Log.Errorf("failed to release resources: %v", err)
		}
	}()

	port := app.Config.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	handler := authhttp.NewHandler(app.Service, authhttp.HandlerConfig{
		RequestTimeout: app.Config.RequestTimeout,
		StaticDir:      app.Config.StaticDir,
		Pinger:         app.Store,
	}, app.Log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	server := srv.NewServer(srv.DefaultServerConfig(port), commonhttp.BuildBaseHandler(app.Log, mux))

	return srv.Run(ctx, server, app.Log, "auth")
}
