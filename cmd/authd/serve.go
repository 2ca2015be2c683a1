package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/99minutos/auth-service/internal/api"
	"github.com/99minutos/auth-service/internal/core/service"
	"github.com/99minutos/auth-service/internal/infrastructure/config"
	"github.com/99minutos/auth-service/internal/infrastructure/queue"
	"github.com/99minutos/auth-service/internal/infrastructure/security"
	"github.com/99minutos/auth-service/pkg/logger"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "authd",
	})

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	// Uniqueness depends on the index or constraint, so prepare the store
	// before accepting traffic. Both migrations are idempotent.
	if be.migrate != nil {
		if err := be.migrate(ctx); err != nil {
			be.close(context.Background())
			return oops.Code("MIGRATION_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
		}
	}

	e, dispatcher, err := buildServer(cfg, be, log, nil)
	if err != nil {
		be.close(context.Background())
		return err
	}
	// Workers outlive the signal so Close can drain queued events.
	dispatcher.Start(context.WithoutCancel(ctx))

	errCh := make(chan error, 1)
	go func() {
		addr := net.JoinHostPort("", cfg.Port)
		log.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("starting auth service")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("http shutdown")
	}
	if closeErr := dispatcher.Close(shutdownCtx); closeErr != nil {
		log.Error().Err(closeErr).Msg("audit dispatcher shutdown")
	}
	be.close(shutdownCtx)

	if err != nil {
		return oops.Code("SERVER_FAILED").Wrap(err)
	}
	return nil
}

// buildServer wires the credential components, the audit pipeline and the
// router around an opened backend. The dispatcher is returned unstarted. A nil
// registry selects the prometheus defaults.
func buildServer(cfg *config.Config, be *backend, log zerolog.Logger, registry *prometheus.Registry) (*echo.Echo, *queue.Dispatcher, error) {
	hasher, err := security.NewHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	key, err := security.GenerateSigningKey()
	if err != nil {
		return nil, nil, oops.Code("KEY_GENERATION_FAILED").Wrap(err)
	}
	tokens, err := security.NewJWTIssuer(key,
		security.WithTTL(cfg.Auth.TokenTTL),
		security.WithIssuer(cfg.Auth.TokenIssuer),
	)
	if err != nil {
		return nil, nil, oops.Code("KEY_GENERATION_FAILED").Wrap(err)
	}

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, cfg.Audit.Buffer, service.NewAuditService(be.audit, log), log)
	authService := service.NewAuthService(be.store, hasher, tokens, dispatcher, log)

	deps := api.Deps{
		Auth:   authService,
		Tokens: tokens,
		Checks: be.checks,
		Log:    log,
	}
	if registry != nil {
		deps.Registerer = registry
		deps.Gatherer = registry
	}
	return api.NewRouter(deps), dispatcher, nil
}
