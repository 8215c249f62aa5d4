package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/core/port"
	appconfig "github.com/hqportal/gatehouse/internal/infra/config"
)

// Publisher emits account events to Kafka through an async producer.
// Delivery is fire-and-forget; producer errors are logged from a background
// goroutine and never surface to the authentication path.
type Publisher struct {
	producer sarama.AsyncProducer
	topic    string
	logger   *zap.Logger
	done     chan struct{}
}

type accountEventMessage struct {
	EventID  string `json:"event_id"`
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Action   string `json:"action"`
	At       string `json:"at"`
}

// NewPublisher initializes the Kafka async producer.
func NewPublisher(cfg appconfig.KafkaSettings, logger *zap.Logger) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_5_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Flush.Frequency = 100 * time.Millisecond
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = false
	saramaConfig.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = "gatehouse"
	}

	p := &Publisher{
		producer: producer,
		topic:    prefix + ".account.events",
		logger:   logger,
		done:     make(chan struct{}),
	}

	go p.handleErrors()

	logger.Info("kafka publisher initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", p.topic),
	)

	return p, nil
}

func (p *Publisher) handleErrors() {
	for {
		select {
		case err := <-p.producer.Errors():
			if err != nil {
				p.logger.Error("kafka producer error",
					zap.Error(err.Err),
					zap.String("topic", err.Msg.Topic),
				)
			}
		case <-p.done:
			return
		}
	}
}

// PublishAccountEvent enqueues the event for asynchronous delivery.
func (p *Publisher) PublishAccountEvent(_ context.Context, event domain.AccountEvent) error {
	payload, err := json.Marshal(accountEventMessage{
		EventID:  event.EventID,
		UserID:   event.UserID,
		UserName: event.UserName,
		Action:   string(event.Action),
		At:       event.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal account event: %w", err)
	}

	select {
	case p.producer.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", event.UserID)),
		Value: sarama.ByteEncoder(payload),
	}:
		return nil
	case <-p.done:
		return fmt.Errorf("kafka publisher closed")
	}
}

// Close drains and shuts down the producer.
func (p *Publisher) Close() error {
	close(p.done)
	return p.producer.Close()
}

var _ port.EventPublisher = (*Publisher)(nil)
