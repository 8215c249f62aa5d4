package port

import (
	"context"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

// UserRepository exposes persistence behavior for user accounts. It is the
// sole mutator of credential state; every mutator persists synchronously
// before returning.
type UserRepository interface {
	FindByName(ctx context.Context, name string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create assigns the next id in the monotonic sequence. An empty
	// passwordHash leaves the account in the must-set-password state.
	Create(ctx context.Context, name string, role domain.Role, passwordHash string) (*domain.User, error)
	// RecordFailedAttempt increments the counter and returns the updated value.
	RecordFailedAttempt(ctx context.Context, id int64) (int, error)
	// RecordSuccess resets the failed-attempt counter to zero.
	RecordSuccess(ctx context.Context, id int64) error
	// SetBlocked updates the lockout flag. Unblocking also clears the
	// failed-attempt counter in the same persisted write.
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	SetPassword(ctx context.Context, id int64, passwordHash string) error
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	ListBlocked(ctx context.Context) ([]domain.User, error)
}
