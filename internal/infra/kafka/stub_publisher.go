package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/core/port"
)

// StubPublisher is used when no brokers are configured. Events are logged
// locally instead of being delivered anywhere.
type StubPublisher struct {
	logger *zap.Logger
}

func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (s *StubPublisher) PublishAccountEvent(_ context.Context, event domain.AccountEvent) error {
	s.logger.Debug("account event (stub publisher)",
		zap.String("event_id", event.EventID),
		zap.Int64("user_id", event.UserID),
		zap.String("user_name", event.UserName),
		zap.String("action", string(event.Action)),
	)
	return nil
}

func (s *StubPublisher) Close() error { return nil }

var _ port.EventPublisher = (*StubPublisher)(nil)
