package kafka_notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ledger/internal/domain"
	kafka_infra "ledger/internal/infrastructure/kafka"
)

// Notifier publishes account notification events to Kafka, keyed by the
// recipient email so that all notifications for one owner stay ordered.
type Notifier struct {
	producer kafka_infra.Producer
	topic    string
	logger   *zap.Logger
}

func NewNotifier(producer kafka_infra.Producer, topic string, logger *zap.Logger) *Notifier {
	return &Notifier{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

func (n *Notifier) NotifyFundsLow(ctx context.Context, email string) error {
	return n.publish(ctx, domain.NotificationFundsLow, email)
}

func (n *Notifier) NotifyApproachingPayInLimit(ctx context.Context, email string) error {
	return n.publish(ctx, domain.NotificationPayInLimitApproaching, email)
}

func (n *Notifier) publish(ctx context.Context, notificationType domain.NotificationType, email string) error {
	event := domain.AccountNotificationEvent{
		Type:      notificationType,
		Email:     email,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	if err := n.producer.Produce(ctx, email, n.topic, payload); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", notificationType, err)
	}

	n.logger.Debug("Notification event published",
		zap.String("type", string(notificationType)),
		zap.String("email", email),
	)
	return nil
}
