package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tailored-agentic-units/fixture/builder"
	"github.com/tailored-agentic-units/fixture/catalog"
	"github.com/tailored-agentic-units/fixture/config"
	"github.com/tailored-agentic-units/fixture/observability"
	"github.com/tailored-agentic-units/fixture/server"
)

const shutdownTimeout = 5 * time.Second

func serve(ctx context.Context, cfg config.Config, cat *catalog.Catalog, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := observability.NewMetricsObserver(reg)
	if err != nil {
		return err
	}
	observability.RegisterObserver("metrics", metrics)

	named, err := observability.GetObserver(cfg.Builder.Observer)
	if err != nil {
		return fmt.Errorf("failed to resolve observer: %w", err)
	}

	srv, err := server.New(cat, cfg.Server,
		builder.WithConfig(cfg.Builder),
		builder.WithObserver(observability.NewMultiObserver(named, metrics)),
	)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/", srv.Handler())
	mux.Handle(cfg.Server.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Unencrypted HTTP/2 lets gRPC clients call the service as well.
	protocols := new(http.Protocols)
	protocols.SetHTTP1(true)
	protocols.SetUnencryptedHTTP2(true)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		Protocols:         protocols,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Fixture server starting",
			"address", cfg.Server.Addr,
			"metrics", cfg.Server.MetricsPath,
			"states", len(cat.States))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Fixture server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
