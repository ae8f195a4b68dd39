package interfaces

import "context"

// EventPublisher emits domain events; key groups events of one account.
type EventPublisher interface {
	Publish(ctx context.Context, name, key string, event any) error
	Close() error
}
