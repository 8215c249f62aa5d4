package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/core/port"
	"github.com/hqportal/gatehouse/internal/repository"
)

var (
	// ErrUserNotFound indicates no account exists with the supplied name.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordWrong indicates the supplied credential does not match.
	ErrPasswordWrong = errors.New("password is wrong")
	// ErrAccountLocked indicates the account is blocked until an
	// administrator unblocks it; the credential is not even checked.
	ErrAccountLocked = errors.New("account is locked")
)

// AuthService orchestrates login, change-password, and unblock flows.
//
// All credential-state mutations go through the user repository, which
// serializes them and persists before returning; the service itself holds
// no locks, so the deliberate post-failure delay never blocks other users.
type AuthService struct {
	users     port.UserRepository
	audit     port.AuditLogRepository
	config    port.ConfigRepository
	hasher    port.PasswordHasher
	generator port.PasswordGenerator
	validator PolicyValidator
	events    port.EventPublisher
	logger    *zap.Logger
	wait      func(time.Duration)
}

// PolicyValidator checks a candidate password against the runtime
// configuration, returning nil or a typed policy violation.
type PolicyValidator interface {
	Validate(password string, cfg domain.ServerConfiguration) error
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	audit port.AuditLogRepository,
	config port.ConfigRepository,
	hasher port.PasswordHasher,
	generator port.PasswordGenerator,
	validator PolicyValidator,
	events port.EventPublisher,
	logger *zap.Logger,
) (*AuthService, error) {
	if users == nil || audit == nil || config == nil {
		return nil, fmt.Errorf("user, audit, and config repositories are required")
	}
	if hasher == nil || generator == nil || validator == nil {
		return nil, fmt.Errorf("hasher, generator, and validator are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		users:     users,
		audit:     audit,
		config:    config,
		hasher:    hasher,
		generator: generator,
		validator: validator,
		events:    events,
		logger:    logger,
		wait:      time.Sleep,
	}, nil
}

// WithWait injects the delay function applied after failed logins,
// primarily for testing.
func (s *AuthService) WithWait(wait func(time.Duration)) *AuthService {
	if wait != nil {
		s.wait = wait
	}
	return s
}

// Login verifies the credential and walks the account through the lockout
// state machine.
//
// A blocked account is rejected before any hash verification: its status
// alone determines the outcome, independent of password correctness, and
// neither the counter, the audit log, nor the delay is touched.
func (s *AuthService) Login(ctx context.Context, name, password string) (*domain.LoginResult, error) {
	user, err := s.users.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.Blocked {
		return nil, ErrAccountLocked
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, s.handleFailedLogin(ctx, user)
	}

	if err := s.users.RecordSuccess(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("reset failed attempts: %w", err)
	}
	if err := s.appendAudit(ctx, user, domain.ActionLoginSuccess); err != nil {
		return nil, err
	}
	user.FailedAttempts = 0

	if password == "" {
		return &domain.LoginResult{User: *user, Status: domain.LoginMustSetPassword}, nil
	}

	forced, err := s.mustChangePassword(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if forced {
		return &domain.LoginResult{User: *user, Status: domain.LoginMustChangePassword}, nil
	}

	return &domain.LoginResult{User: *user, Status: domain.LoginAuthenticated}, nil
}

// handleFailedLogin increments the counter, records the failure, applies the
// configured delay, and escalates to a block when the attempt limit is
// reached. The delay runs on the calling goroutine only; no lock is held.
func (s *AuthService) handleFailedLogin(ctx context.Context, user *domain.User) error {
	attempts, err := s.users.RecordFailedAttempt(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("record failed attempt: %w", err)
	}
	if err := s.appendAudit(ctx, user, domain.ActionLoginFail); err != nil {
		return err
	}

	cfg, err := s.config.Get(ctx)
	if err != nil {
		return fmt.Errorf("read configuration: %w", err)
	}

	// Throttle the response even on the attempt that triggers the block.
	if cfg.WaitWhenFailedMs > 0 {
		s.wait(time.Duration(cfg.WaitWhenFailedMs) * time.Millisecond)
	}

	if attempts >= cfg.MaxAuthAttempts {
		if err := s.users.SetBlocked(ctx, user.ID, true); err != nil {
			return fmt.Errorf("block account: %w", err)
		}
		if err := s.appendAudit(ctx, user, domain.ActionAccountBlocked); err != nil {
			return err
		}
		s.logger.Warn("account blocked after repeated failures",
			zap.Int64("user_id", user.ID),
			zap.Int("attempts", attempts),
		)
		return ErrAccountLocked
	}

	return ErrPasswordWrong
}

// mustChangePassword derives the forced-change state from the audit log:
// if the two entries preceding the just-recorded login success, read newest
// first, are [ChangePassword, AccountUnblocked], an administrator unlock
// happened and the user has not chosen a password of their own since.
func (s *AuthService) mustChangePassword(ctx context.Context, userID int64) (bool, error) {
	entries, err := s.audit.RecentForUser(ctx, userID, 3)
	if err != nil {
		return false, fmt.Errorf("read audit log: %w", err)
	}
	if len(entries) < 3 {
		return false, nil
	}

	// entries[0] is the login success appended moments ago.
	preceding := entries[1:3]
	return preceding[0].Action == domain.ActionChangePassword &&
		preceding[1].Action == domain.ActionAccountUnblocked, nil
}

// ChangePassword re-authenticates with the old credential, validates the new
// one against the live policy, and stores its hash. The re-authentication is
// not a login event: it touches neither the attempt counter nor the audit
// log, and applies no delay.
func (s *AuthService) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error {
	user, err := s.users.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrPasswordWrong
	}

	cfg, err := s.config.Get(ctx)
	if err != nil {
		return fmt.Errorf("read configuration: %w", err)
	}
	if err := s.validator.Validate(newPassword, cfg); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	if err := s.appendAudit(ctx, user, domain.ActionChangePassword); err != nil {
		return err
	}

	return nil
}

// Unblock clears the lockout, issues a fresh policy-compliant password, and
// returns its plaintext exactly once. Authorization of the caller is the
// transport layer's concern.
func (s *AuthService) Unblock(ctx context.Context, targetName string) (*domain.UnblockResult, error) {
	user, err := s.users.FindByName(ctx, targetName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.users.SetBlocked(ctx, user.ID, false); err != nil {
		return nil, fmt.Errorf("unblock account: %w", err)
	}
	if err := s.appendAudit(ctx, user, domain.ActionAccountUnblocked); err != nil {
		return nil, err
	}

	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}
	password, err := s.generator.Generate(cfg)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("store password: %w", err)
	}
	if err := s.appendAudit(ctx, user, domain.ActionChangePassword); err != nil {
		return nil, err
	}

	user.Blocked = false
	user.FailedAttempts = 0
	user.PasswordHash = hash

	return &domain.UnblockResult{User: *user, Password: password}, nil
}

// RecentLogs exposes the audit trail for a user, newest first.
func (s *AuthService) RecentLogs(ctx context.Context, userID int64, n int) ([]domain.AuditEntry, error) {
	entries, err := s.audit.RecentForUser(ctx, userID, n)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return entries, nil
}

// appendAudit records the entry and, best-effort, mirrors it to the event
// bus. An audit persistence failure aborts the operation; a publish failure
// is only logged, the on-disk log being the record of truth.
func (s *AuthService) appendAudit(ctx context.Context, user *domain.User, action domain.Action) error {
	entry, err := s.audit.Append(ctx, user.ID, action)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}

	if s.events != nil {
		event := domain.AccountEvent{
			EventID:  uuid.NewString(),
			UserID:   user.ID,
			UserName: user.Name,
			Action:   action,
			At:       time.UnixMilli(entry.At).UTC(),
		}
		if err := s.events.PublishAccountEvent(ctx, event); err != nil {
			s.logger.Warn("publish account event failed",
				zap.Int64("user_id", user.ID),
				zap.String("action", string(action)),
				zap.Error(err),
			)
		}
	}

	return nil
}
