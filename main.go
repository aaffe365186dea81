package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/gateway"
	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/router"
	"github.com/danielhkuo/livepoll/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment and flags still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level, _ := cliparse.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	metrics := gateway.NewMetrics()
	hub := gateway.NewHub(metrics)

	// Optional closed poll archive. The interfaces stay nil when disabled.
	var (
		opts    []session.Option
		archive handlers.PollArchive
		store   *db.Archive
	)
	if cfg.ArchiveEnabled() {
		dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()

		if err := db.CreateSchema(dbConn); err != nil {
			slog.Error("schema creation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema ready", "type", cfg.DatabaseType)

		store = db.NewArchive(dbConn, cfg.DatabaseType)
		opts = append(opts, session.WithArchiver(store))
		archive = store
	}

	mgr := session.NewManager(hub, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws := gateway.NewServer(ctx, mgr, hub, metrics, cfg.FrontendOrigin)
	mux := router.NewRouter(mgr, ws, metrics, archive)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.FrontendOrigin, mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		// Wait for Ctrl-C signal
		<-ctrlc
		slog.Info("Shutting down")

		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
		// Hijacked websocket connections are not tracked by Shutdown
		cancel()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "origin", cfg.FrontendOrigin, "archive", cfg.ArchiveEnabled())
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		<-stopped
		slog.Info("Server closed", "error", err)
	}

	cancel()
	mgr.Close()
	if store != nil {
		store.Close()
	}
}
