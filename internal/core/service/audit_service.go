package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/infrastructure/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists one authentication event.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditErrorsTotal.Inc()
		return fmt.Errorf("persist audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Action), string(event.Outcome)).Inc()
	s.log.Debug().
		Str("action", string(event.Action)).
		Str("outcome", string(event.Outcome)).
		Str("reason", event.Reason).
		Msg("audit event persisted")
	return nil
}
