package port

import (
	"context"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

// ConfigRepository stores the runtime ServerConfiguration. Get reads the
// current persisted value; callers must not cache it across decisions.
type ConfigRepository interface {
	Get(ctx context.Context) (domain.ServerConfiguration, error)
	Update(ctx context.Context, cfg domain.ServerConfiguration) error
}
