package domain

import "time"

type NotificationType string

const (
	NotificationFundsLow              NotificationType = "FUNDS_LOW"
	NotificationPayInLimitApproaching NotificationType = "PAY_IN_LIMIT_APPROACHING"
)

// AccountNotificationEvent - событие, публикуемое для сервиса уведомлений,
// когда счет приближается к одному из порогов.
type AccountNotificationEvent struct {
	Type      NotificationType `json:"type"`
	Email     string           `json:"email"`
	Timestamp time.Time        `json:"timestamp"`
}
