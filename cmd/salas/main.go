package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salas/internal/api"
	"salas/internal/composer"
	"salas/internal/config"
	"salas/internal/domain"
	"salas/internal/events"
	"salas/internal/logging"
	"salas/internal/metrics"
	"salas/internal/models"
	"salas/internal/repository"
	"salas/internal/service"
	"salas/internal/session"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(args []string) error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	repo, redisClient := initCredentialRepository(ctx, cfg, &logger)
	if redisClient != nil {
		defer (func() { _ = repository.Close(redisClient) })()
	}

	a, err := newApp(ctx, cfg, repo, &logger)
	if err != nil {
		return err
	}
	a.out = os.Stdout

	return a.run(ctx, args)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("SALAS_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "cli").Logger()

	return cfg, logger, closer, nil
}

// initCredentialRepository picks the session backend. Redis is wrapped in a
// failover so an unreachable server degrades to a process-local session.
func initCredentialRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.CredentialRepository, *redis.Client) {
	memory := repository.NewMemoryCredentialRepository()
	if cfg.Session.Backend != config.SessionBackendRedis {
		return memory, nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("redis connection failed, session will not persist")
	} else {
		logger.Debug().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	primary := repository.NewRedisCredentialRepository(client)
	return repository.NewFailoverCredentialRepository(primary, memory, logger), client
}

// newApp wires session, dispatcher, clients and services for one command run.
func newApp(ctx context.Context, cfg *config.Config, repo domain.CredentialRepository, logger *zerolog.Logger) (*app, error) {
	bus := events.NewEventBus()
	bus.Subscribe(events.EventSessionExpired, func(e *events.Event) error {
		logger.Warn().Str("event", e.Type).Msg("session expired, login again")
		return nil
	})

	store := session.NewStore(repo, cfg.Session.Profile, cfg.Session.DefaultTTL, bus, logging.Component(logger, "session"))
	if err := store.Restore(ctx); err != nil && !errors.Is(err, session.ErrExpired) {
		logger.Warn().Err(err).Msg("restore session")
	}

	// SALAS_TOKEN seeds a session when nothing was persisted.
	if token := os.Getenv("SALAS_TOKEN"); token != "" && !store.IsLoggedIn() {
		if err := store.Login(ctx, models.Credential{Token: token}); err != nil {
			return nil, fmt.Errorf("SALAS_TOKEN: %w", err)
		}
	}

	dispatcher := api.NewDispatcher(cfg.API, store, logger)
	rooms := api.NewRoomClient(dispatcher)
	reservations := api.NewReservationClient(dispatcher)

	return &app{
		cfg:     cfg,
		logger:  logger,
		auth:    service.NewAuthService(dispatcher, store, cfg.API.TokenEndpoint, logger),
		booking: service.NewBookingService(rooms, reservations, composer.New(time.Local), bus, logger),
	}, nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
