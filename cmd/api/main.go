package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/book"
	"bookcatalog/internal/borrow"
	"bookcatalog/internal/config"
	"bookcatalog/internal/lists"
	"bookcatalog/internal/platform/crypto"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg, os.Stdout)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	return logger.New(logger.Config{
		Writer: w,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	bookRepository, err := book.OpenCSVRepo(cfg.CatalogCSV, log)
	if err != nil {
		return err
	}
	catalog := book.NewService(bookRepository)

	eventLog, ready, closeLog, err := openEventLog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLog()

	ledger, err := borrow.NewLedger(ctx, catalog, eventLog, borrow.WithLogger(log))
	if err != nil {
		return err
	}
	listStore := lists.NewStore(catalog, log)

	directory, err := user.Seed(user.DefaultCredentials...)
	if err != nil {
		return err
	}
	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)

	handler := newRouter(ctx, cfg, log, routes{
		auth:   auth.NewHTTPHandler(auth.NewService(directory, tokens, log)),
		books:  book.NewHTTPHandler(catalog),
		borrow: borrow.NewHTTPHandler(ledger),
		lists:  lists.NewHTTPHandler(listStore, catalog),
		tokens: tokens,
		ready:  ready,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Addr, "catalog", cfg.CatalogCSV)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// openEventLog picks the Postgres log when DB_DSN is set, the in-memory one otherwise.
func openEventLog(ctx context.Context, cfg config.Config, log *slog.Logger) (borrow.EventLog, func(context.Context) error, func(), error) {
	if cfg.DBDSN == "" {
		log.Warn("DB_DSN not set, borrow history is kept in memory only")
		return borrow.NewMemoryLog(), nil, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error("cannot ping database", "dsn", config.RedactDSN(cfg.DBDSN), "error", err)
		return nil, nil, nil, err
	}
	log.Info("database connection OK", "dsn", config.RedactDSN(cfg.DBDSN))

	return borrow.NewPostgresLog(pool, cfg.DBTimeout), pool.Ping, pool.Close, nil
}
