package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/backtrail-dev/backtrail/internal/config"
	"github.com/backtrail-dev/backtrail/pkg/middleware"
	"github.com/backtrail-dev/backtrail/pkg/nav"
	"github.com/backtrail-dev/backtrail/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		port       int
		host       string
		configPath string
		tracing    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bridge server",
		Long: `Start the WebSocket bridge server.

Each connected client gets its own navigation pipeline: a remote
history stack, a backlink chain, an awaitable controller, and a
transition machine, all driven by the routes declared in
backtrail.json.

Examples:
  backtrail serve
  backtrail serve --port=8080
  backtrail serve --config=./deploy/backtrail.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host, configPath, tracing)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from backtrail.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from backtrail.json)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to backtrail.json")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Install OpenTelemetry span middleware")

	return cmd
}

func runServe(port int, host, configPath string, tracing bool) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}

	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var navMW []nav.Middleware
	if cfg.Metrics.Enabled {
		navMW = append(navMW, middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithSubsystem(cfg.Metrics.Subsystem),
		))
	}
	if tracing {
		navMW = append(navMW, middleware.OpenTelemetry())
	}

	handler := server.NewHandler(cfg.Table(),
		server.WithHandlerLogger(logger),
		server.WithNavMiddleware(navMW...),
		server.WithUpdateLimit(rate.Limit(cfg.Bridge.UpdateRate), cfg.Bridge.UpdateBurst),
	)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()
	fmt.Println()
	success("Listening on http://%s", cfg.Address())
	info("WebSocket bridge:  /ws")
	info("Health check:      /healthz")
	if cfg.Metrics.Enabled {
		info("Metrics:           /metrics")
	}
	fmt.Println()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		fmt.Println("\n  Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
