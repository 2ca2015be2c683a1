package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// AuditLog is the audit repository for stores without an event table: it
// writes each event to the structured log.
type AuditLog struct {
	log zerolog.Logger
}

func NewAuditLog(log zerolog.Logger) *AuditLog {
	return &AuditLog{log: log.With().Str("component", "audit").Logger()}
}

func (a *AuditLog) InsertEvent(_ context.Context, event *domain.AuthEvent) error {
	e := a.log.Info().
		Str("action", string(event.Action)).
		Str("email", event.Email).
		Str("outcome", string(event.Outcome)).
		Time("at", event.At)
	if event.Reason != "" {
		e = e.Str("reason", event.Reason)
	}
	e.Msg("auth event")
	return nil
}
