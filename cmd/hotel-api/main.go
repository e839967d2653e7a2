package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirasawaau/hotel-reservation/internal/config"
	"github.com/hirasawaau/hotel-reservation/internal/events"
	"github.com/hirasawaau/hotel-reservation/internal/logger"
	"github.com/hirasawaau/hotel-reservation/internal/metrics"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"github.com/hirasawaau/hotel-reservation/internal/server"
	"github.com/hirasawaau/hotel-reservation/internal/store"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		log.Fatalf("dotenv: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Error("exit", zap.Error(err))
		_ = lg.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			lg.Warn("store close", zap.Error(err))
		}
	}()

	pub, err := events.Open(cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			lg.Warn("publisher close", zap.Error(err))
		}
	}()

	m := metrics.New()
	svc := reservation.NewService(st, lg,
		reservation.WithPublisher(pub),
		reservation.WithRecorder(m),
		reservation.WithPublishTimeout(cfg.EventPublishTimeout),
	)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: server.NewRouter(server.Deps{
			Service: svc,
			Metrics: m,
			Events:  pub,
			Log:     lg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.StoreDriver), zap.String("events", cfg.EventsDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
