package notification

import "context"

// Service delivers threshold notifications to an account owner by email.
// Callers treat delivery as fire-and-forget: errors are logged, never
// propagated.
type Service interface {
	NotifyFundsLow(ctx context.Context, email string) error
	NotifyApproachingPayInLimit(ctx context.Context, email string) error
}
