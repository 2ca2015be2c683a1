package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository on the auth_events table.
type AuditRepository struct {
	pool poolIface
}

func NewAuditRepository(pool poolIface) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	var reason *string
	if event.Reason != "" {
		reason = &event.Reason
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_events (action, email, outcome, reason, at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		string(event.Action),
		event.Email,
		string(event.Outcome),
		reason,
		event.At,
	)
	if err != nil {
		return oops.Code("AUTH_EVENT_INSERT_FAILED").
			With("action", string(event.Action)).
			Wrap(err)
	}
	return nil
}
