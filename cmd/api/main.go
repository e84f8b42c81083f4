package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devang127/lead-management/internal/auth"
	"github.com/devang127/lead-management/internal/config"
	"github.com/devang127/lead-management/internal/crm"
	"github.com/devang127/lead-management/internal/httpapi"
	"github.com/devang127/lead-management/internal/obs"
	"github.com/devang127/lead-management/internal/store/pg"
	"github.com/devang127/lead-management/internal/users"
)

var version = "1.2.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		obs.Logger().Fatal().Err(err).Msg("load config")
	}
	obs.InitLogger(cfg.LogLevel)
	obs.Init()
	log := obs.Logger()

	db, err := pg.Open(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	userStore := pg.NewUserStore(db)
	leadStore := pg.NewLeadStore(db)
	auditStore := pg.NewAuditStore(db)

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer")
	}
	authSvc, err := auth.NewService(userStore, tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service")
	}
	leadSvc, err := crm.NewService(leadStore, userStore)
	if err != nil {
		log.Fatal().Err(err).Msg("lead service")
	}
	userSvc, err := users.NewService(userStore, auditStore)
	if err != nil {
		log.Fatal().Err(err).Msg("user service")
	}

	api := httpapi.New(authSvc, leadSvc, userSvc, httpapi.Options{
		Version:      version,
		CORSOrigin:   cfg.CORSOrigin,
		MaxBodyBytes: cfg.MaxBodyBytes,
		RatePerSec:   cfg.RateLimitPerSecond,
		RateBurst:    cfg.RateLimitBurst,
		ReadyProbe: func(ctx context.Context) error {
			return pg.Ping(ctx, db)
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Str("version", version).Msg("starting lead-management-api")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info().Msg("stopped")
}
