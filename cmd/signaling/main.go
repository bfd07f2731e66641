package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/mossy-p/meeting-signaling/config"
	"github.com/mossy-p/meeting-signaling/internal/handlers"
	"github.com/mossy-p/meeting-signaling/internal/logging"
	"github.com/mossy-p/meeting-signaling/internal/meeting"
	"github.com/mossy-p/meeting-signaling/internal/registry"
)

const shutdownDeadline = 10 * time.Second

func main() {
	// Load configuration; flags override the environment
	cfg := config.Load()
	fs := pflag.NewFlagSet("signaling", pflag.ExitOnError)
	cfg.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	meetings, err := openStore(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.MeetingStore).Msg("failed to open meeting store")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer closeCancel()
		if err := meetings.Close(closeCtx); err != nil {
			logger.Warn().Err(err).Msg("failed to close meeting store")
		}
	}()

	hub := meeting.NewHub(registry.New(), meeting.Options{
		Logger:        &logger,
		EmptyRoomTTL:  cfg.Hub.EmptyRoomTTL,
		SweepInterval: cfg.Hub.SweepInterval,
	})

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handlers.New(handlers.Config{
		Hub:            hub,
		Store:          meetings,
		Logger:         &logger,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		SendBuffer:     cfg.Hub.SendBuffer,
	}).Mount(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var (
		wg   = &sync.WaitGroup{}
		errc = make(chan error, 1)
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()
	go runServer(ctx, srv, wg, errc, logger)

	select {
	case err = <-errc:
		logger.Error().Err(err).Msg("unexpected server error, shutting down")
	case <-ctx.Done():
		logger.Warn().Msg("interrupted")
	}
	cancel()
	wg.Wait()
}

func runServer(ctx context.Context, srv *http.Server, wg *sync.WaitGroup, errc chan<- error, logger zerolog.Logger) {
	defer wg.Done()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting meeting signaling server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	<-ctx.Done()
	shCtx, shCancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}
}
