package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskd/internal/auth"
	"github.com/adanyl0v/taskd/internal/config"
	"github.com/adanyl0v/taskd/internal/delivery/http/v1"
	"github.com/adanyl0v/taskd/internal/services"
	"github.com/adanyl0v/taskd/internal/storage"
)

// NewRouter wires the services over store and mounts the v1 routes.
func NewRouter(logger zerolog.Logger, cfg config.Config, store storage.Store) (*gin.Engine, error) {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	signingKey, err := cfg.JWT.SigningKey()
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenCodec(signingKey, cfg.JWT.TokenLifetime())
	if err != nil {
		return nil, fmt.Errorf("create token codec: %w", err)
	}
	passwords := auth.NewPasswordHasher(nil)

	userService := services.NewUserService(logger, store)
	v1Handler := v1.New(
		logger,
		tokens,
		services.NewAuthService(logger, store, userService, passwords, tokens),
		userService,
		services.NewTaskService(logger, store),
		services.NewStatsService(logger, store),
		store,
	)

	router := gin.New()
	router.Use(v1Handler.HandleRequestLog)
	router.Use(gin.Recovery())
	v1.RegisterRoutes(router, v1Handler)
	return router, nil
}

// ListenAndServeHTTP serves handler until ctx is done, then shuts the server
// down within cfg.ShutdownTimeout.
func ListenAndServeHTTP(ctx context.Context, logger zerolog.Logger, cfg config.HTTPConfig, handler http.Handler) error {
	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("host", cfg.Host).
			Str("port", cfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		return err
	}
	logger.Info().Msg("shut down http server")
	return nil
}
