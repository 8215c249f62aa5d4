package port

import (
	"context"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

// EventPublisher publishes account events to the message bus. Publishing is
// best-effort: the audit log on disk is the record of truth, the bus is a
// side channel for downstream consumers.
type EventPublisher interface {
	PublishAccountEvent(ctx context.Context, event domain.AccountEvent) error
}
