package port

import (
	"context"
	"triphoto/internal/core/domain"
)

// EventPublisher is an interface to define an upload event publisher (nats, kafka, ...)
type EventPublisher interface {
	PublishUploadEvent(ctx context.Context, event domain.UploadEvent) error
	Close() error
}
