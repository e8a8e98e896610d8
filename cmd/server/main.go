package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dlcf-orozo/orozo-dp/internal/api"
	"github.com/dlcf-orozo/orozo-dp/internal/config"
	"github.com/dlcf-orozo/orozo-dp/internal/logging"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("getwd")
	}
	v, err := config.New(wd)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	cfg := config.Load(v)
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.Env == "PROD" {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewEngine(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("building server")
	}
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		log.Info().Str("env", cfg.Env).Msg("starting server on http://localhost:" + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
