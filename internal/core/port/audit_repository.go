package port

import (
	"context"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

// AuditLogRepository owns the append-only event record. Append assigns the
// current timestamp and persists before returning; persistence failures are
// propagated, never swallowed.
type AuditLogRepository interface {
	Append(ctx context.Context, userID int64, action domain.Action) (domain.AuditEntry, error)
	// RecentForUser returns up to n entries for the user, newest first.
	// n <= 0 returns all of them.
	RecentForUser(ctx context.Context, userID int64, n int) ([]domain.AuditEntry, error)
}
