package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mystock-backend/internal/auth"
	"mystock-backend/internal/config"
	"mystock-backend/internal/db"
	httpapi "mystock-backend/internal/http"
	"mystock-backend/internal/logging"
	"mystock-backend/internal/repository"
	"mystock-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").WithError(err).Fatal("config error")
	}
	log := logging.New(cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database error")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.WithError(err).Fatal("migration error")
	}

	repo := repository.New(pool)
	svc := service.New(repo, log)
	authMgr := auth.NewManager(cfg.JWT)
	handler := httpapi.NewHandler(svc, authMgr, log)
	router := httpapi.NewRouter(handler, authMgr, log, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil {
			log.WithError(closeErr).Error("force close failed")
		}
	}
}
