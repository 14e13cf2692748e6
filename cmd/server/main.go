package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Caltsic/AIourstory-sub001/internal/api"
	"github.com/Caltsic/AIourstory-sub001/internal/config"
	applog "github.com/Caltsic/AIourstory-sub001/internal/log"
	"github.com/Caltsic/AIourstory-sub001/internal/mail"
	"github.com/Caltsic/AIourstory-sub001/internal/ratelimit"
	"github.com/Caltsic/AIourstory-sub001/internal/repository/postgres"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		applog.Init("development")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	applog.Init(cfg.Environment)

	// Database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	repos := postgres.NewRepositories(db)

	// Redis (verification send budgets)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	budget := ratelimit.NewSendBudget(rdb, cfg.SendCooldown, cfg.DailySendLimit)

	// Services and router
	mailer := mail.NewSMTPMailer(cfg)
	services := service.NewServices(repos, budget, mailer, cfg)
	router := api.NewRouter(services, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
