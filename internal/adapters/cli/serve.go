package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim-go/internal/adapters/metrics"
	"github.com/andrescamacho/factorysim-go/internal/adapters/websocket"
	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/config"
)

// NewServeCommand runs the session server in the foreground
func NewServeCommand() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sessions over websocket",
		Long: `Serve sessions to websocket clients at /ws. Prometheus metrics are exposed on the
same address when metrics.enabled is set, and /healthz answers liveness probes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, cfg, nil)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Listen address (overrides server.address)")
	return cmd
}

// Serve runs the session server until ctx is done. When ready is not nil it receives the
// bound address once the listener is open.
func Serve(ctx context.Context, cfg *config.Config, ready chan<- string) error {
	var (
		observer    appsim.Observer
		middlewares []common.Middleware
		simMetrics  *metrics.SimulationMetricsCollector
	)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		simMetrics = metrics.NewSimulationMetricsCollector()
		if err := simMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register simulation metrics: %w", err)
		}
		observer = simMetrics
		middlewares = append(middlewares, metrics.PrometheusMiddleware(commandMetrics))
	}

	app, err := Bootstrap(cfg, observer, middlewares...)
	if err != nil {
		return err
	}
	defer app.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", websocket.NewServer(app.Mediator, websocket.Config{
		RatePerSecond: cfg.Server.RateLimit.Requests,
		Burst:         cfg.Server.RateLimit.Burst,
		IdleTimeout:   cfg.Server.IdleTimeout,
		EventLimit:    cfg.Server.EventLimit,
	}, app.Logger))
	if simMetrics != nil {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	listener, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Address, err)
	}
	server := &http.Server{
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return app.Context(context.Background()) },
	}

	app.Logger.Log("INFO", "session server listening", map[string]interface{}{
		"address": listener.Addr().String(),
		"metrics": cfg.Metrics.Enabled,
		"store":   cfg.Database.Type,
	})
	app.Logger.Log("DEBUG", "routing session requests", map[string]interface{}{
		"requests": strings.Join(common.Registered(app.Mediator), ","),
	})
	if ready != nil {
		ready <- listener.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.Logger.Log("INFO", "shutting down session server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
