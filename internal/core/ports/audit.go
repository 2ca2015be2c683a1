package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// AuditSink accepts authentication events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists authentication events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService processes a single authentication event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}
