// Package notifier is the outbound notification boundary. Delivery is
// best-effort: failures are logged by callers and never retried beyond the
// sender's own backoff, and never fatal.
package notifier

import "context"

// Notifier sends a prepared message to the configured channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
