package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/core/port"
)

// ConfigService reads and updates the admin-mutable runtime configuration.
type ConfigService struct {
	config port.ConfigRepository
	logger *zap.Logger
}

// NewConfigService constructs a ConfigService instance.
func NewConfigService(config port.ConfigRepository, logger *zap.Logger) *ConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigService{config: config, logger: logger}
}

// Get returns the current configuration.
func (s *ConfigService) Get(ctx context.Context) (domain.ServerConfiguration, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return domain.ServerConfiguration{}, fmt.Errorf("read configuration: %w", err)
	}
	return cfg, nil
}

// Update validates and persists a new configuration. Thresholds that would
// disable authentication are rejected before anything is written.
func (s *ConfigService) Update(ctx context.Context, cfg domain.ServerConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.config.Update(ctx, cfg); err != nil {
		return fmt.Errorf("store configuration: %w", err)
	}

	s.logger.Info("server configuration updated",
		zap.Int("max_auth_attempts", cfg.MaxAuthAttempts),
		zap.Int("wait_when_failed_ms", cfg.WaitWhenFailedMs),
		zap.Int("password_min_length", cfg.PasswordMinLength),
		zap.Bool("mixed_case", cfg.PasswordRequireMixedCase),
		zap.Bool("special_and_digit", cfg.PasswordRequireSpecialAndDigit),
	)
	return nil
}
