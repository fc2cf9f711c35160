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

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/pkg/jwt"
	"hotel/internal/pkg/storage"
	"hotel/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("level=fatal msg=\"invalid config\" err=%v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("level=fatal msg=\"db connect failed\" err=%v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("level=fatal msg=\"migrate failed\" err=%v", err)
	}

	srv := server.New(db, server.Options{
		JWT:          jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL),
		Files:        storage.NewLocal(cfg.MediaRoot, cfg.MediaURL),
		AvatarMaxPx:  cfg.AvatarMaxPx,
		CORSOrigins:  cfg.CORSOrigins,
		ExposeErrors: !cfg.IsProduction(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.SweepEnabled {
		if _, err := srv.Sweeper.Sweep(ctx, srv.Sweeper.Today()); err != nil {
			log.Printf("level=error msg=\"startup sweep failed\" err=%v", err)
		}
		srv.Sweeper.Schedule(ctx, cfg.SweepInterval)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("level=info msg=\"server starting\" addr=%s env=%s", httpSrv.Addr, cfg.AppEnv)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("level=fatal msg=\"listen failed\" err=%v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("level=info msg=\"shutdown signal received\"")

	cancel()
	srv.Hub.Close()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("level=fatal msg=\"forced shutdown\" err=%v", err)
	}
	log.Printf("level=info msg=\"server stopped\"")
}
