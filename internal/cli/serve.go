package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"kasa/internal/alarm"
	"kasa/internal/amqp"
	"kasa/internal/api"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the alarm scanner",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	// Notifications go to the broker when one is configured, otherwise
	// to the log.
	var notifier alarm.Notifier = alarm.LogNotifier{}
	if cfg.AMQPURL != "" {
		relay, err := amqp.NewNotifier(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer relay.Close()
		notifier = relay
		logger.Info("Using AMQP notification relay", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	server := api.NewServer(engine, logger)
	if cfg.MetricsEnabled {
		server.EnableMetrics()
	}

	httpServer := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        server.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	scanner := alarm.NewScanner(engine, notifier, alarm.SystemClock{}, cfg.AlarmInterval)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting kasa server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return scanner.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
