package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hqportal/gatehouse/internal/core/port"
	"github.com/hqportal/gatehouse/internal/infra/config"
	kafkainfra "github.com/hqportal/gatehouse/internal/infra/kafka"
	"github.com/hqportal/gatehouse/internal/infra/logger"
	"github.com/hqportal/gatehouse/internal/infra/security"
	"github.com/hqportal/gatehouse/internal/repository/jsonstore"
	"github.com/hqportal/gatehouse/internal/transport/http/middleware"
	"github.com/hqportal/gatehouse/internal/transport/http/routes"
	"github.com/hqportal/gatehouse/internal/usecase"
)

// Application owns the wired object graph and the HTTP server lifecycle.
type Application struct {
	cfg       *config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	store     *jsonstore.Store
	publisher port.EventPublisher
}

// New wires the full application from configuration.
func New(_ context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := jsonstore.Open(cfg.Store.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	hasher, err := security.NewArgon2Hasher(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	if err != nil {
		return nil, fmt.Errorf("init password hasher: %w", err)
	}

	validator := security.NewPolicyValidator()
	issuer := security.NewPasswordIssuer(validator)

	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	var publisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := kafkainfra.NewPublisher(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka publisher, using stub publisher", zap.Error(err))
			publisher = kafkainfra.NewStubPublisher(log)
		} else {
			publisher = kafkaPublisher
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		publisher = kafkainfra.NewStubPublisher(log)
	}

	authService, err := usecase.NewAuthService(store, store, store, hasher, issuer, validator, publisher, log)
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}
	userService := usecase.NewUserService(store)
	configService := usecase.NewConfigService(store, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Tokens:  tokens,
		Metrics: metrics,
		Services: routes.ServiceSet{
			Auth:   authService,
			Users:  userService,
			Config: configService,
		},
	})

	return &Application{
		cfg:       cfg,
		engine:    engine,
		logger:    log,
		store:     store,
		publisher: publisher,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if closer, ok := a.publisher.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting gatehouse API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.String("store", a.cfg.Store.Path),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
