package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/config"
	"github.com/mauv0809/croquet-league/internal/engine"
	server "github.com/mauv0809/croquet-league/internal/http"
	"github.com/mauv0809/croquet-league/internal/ledger"
	"github.com/mauv0809/croquet-league/internal/metrics"
	"github.com/mauv0809/croquet-league/internal/processor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var port string

func init() {
	serveCmd.Flags().StringVar(&port, "port", "", "Port to listen on (default $PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve standings, events and run history over HTTP and accept run triggers",
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if port != "" {
			cfg.Port = port
		}

		db, teardown, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("Closing database connection")
			teardown()
		}()

		registry := prometheus.NewRegistry()
		metricsSvc := metrics.NewService(registry)
		ps, err := newPubSub(cfg)
		if err != nil {
			return err
		}
		if ps != nil {
			defer ps.Close()
		}
		store := ledger.New(db)
		proc := processor.New(store, newNotifier(cfg, metricsSvc), metricsSvc, ps, cfg.League.Contacts, cfg.PubSub.Topic)

		// Inputs are re-read on every request so edits to the export show up
		// without a restart.
		load := func() (engine.Input, engine.Options, error) {
			in, err := loadInput(cfg.League)
			return in, options(cfg.League), err
		}
		s := server.NewServer(store, proc, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), load, cfg.League.Output)
		log.Info("Startup time recorded", "duration_ms", time.Since(startTime).Milliseconds())

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           s,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Info("Server started", "port", cfg.Port)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case sig := <-shutdown:
			log.Info("Shutdown signal received", "signal", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Server shutdown failed", "error", err)
				return err
			}
			log.Info("Server gracefully stopped")
		}
		return nil
	},
}
