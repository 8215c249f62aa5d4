package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/core/port"
	"github.com/hqportal/gatehouse/internal/repository"
)

var (
	// ErrNameTaken indicates an account with the requested name exists.
	ErrNameTaken = errors.New("user name already taken")
	// ErrRoleUnknown indicates the requested role is not a known value.
	ErrRoleUnknown = errors.New("unknown role")
)

// UserService serves account provisioning and the role-scoped listings
// consumed by the administrative surface. Password hashes are stripped
// from every result.
type UserService struct {
	users port.UserRepository
}

// NewUserService constructs a UserService instance.
func NewUserService(users port.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create provisions a new passwordless account. The owner sets the
// password on first login with an empty credential.
func (s *UserService) Create(ctx context.Context, name string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("user name must not be empty")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrRoleUnknown, role)
	}

	user, err := s.users.Create(ctx, name, role, "")
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Get returns a single user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// ListByRole returns all accounts holding the given role.
func (s *UserService) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrRoleUnknown, role)
	}

	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return sanitize(users), nil
}

// ListBlocked returns all currently locked-out accounts.
func (s *UserService) ListBlocked(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListBlocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	return sanitize(users), nil
}

func sanitize(users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	for i, user := range users {
		user.PasswordHash = ""
		out[i] = user
	}
	return out
}
