package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/rest-planning/internal/application"
	"github.com/example/rest-planning/internal/auth"
	httptransport "github.com/example/rest-planning/internal/http"
	"github.com/example/rest-planning/internal/persistence/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP planning service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging)

	storage, err := sqlite.Open(cfg.Storage.DSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		return err
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		return err
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.TokenSecret), time.Now)
	if err != nil {
		logger.Error("failed to build token codec", "error", err)
		return err
	}

	cipher, err := application.NewNicknameCipher(cfg.Auth.NicknameKeyBytes())
	if err != nil {
		logger.Error("failed to build nickname cipher", "error", err)
		return err
	}

	audit := application.NewAuditEmitter(storage, uuid.NewString, time.Now, cfg.Audit.Buffer, logger)
	defer audit.Close()

	periodService := application.NewPeriodService(storage, audit, uuid.NewString, time.Now, logger)
	planService := application.NewPlanService(storage, storage, periodService, cipher, audit, uuid.NewString, time.Now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Periods:  httptransport.NewPeriodHandler(periodService, logger),
		Plans:    httptransport.NewPlanHandler(planService, logger),
		Identity: httptransport.RequireIdentity(codec, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
