package audit

import (
	"context"
	"time"

	"tokopos/internal/core/session"
	"tokopos/internal/core/types"
	"tokopos/pkg/logger"
)

// Service records and queries activity entries. Appends join whatever
// transaction is open on the context, so a sale's audit entry commits
// or rolls back together with the sale.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new audit service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Append records an activity for the acting user from the context.
func (s *Service) Append(ctx context.Context, aktivitas, detail string) error {
	username := session.Username(ctx)
	if username == "" {
		username = "system"
	}

	entry := &Entry{
		Username:  username,
		Aktivitas: aktivitas,
		Tanggal:   types.FormatDateTime(s.now()),
		Detail:    detail,
	}
	return s.repo.Append(ctx, entry)
}

// RecordError logs a boundary failure into the activity log. Best
// effort: a failure to record is logged and swallowed so it never
// masks the original error.
func (s *Service) RecordError(ctx context.Context, detail string) {
	if err := s.Append(ctx, ActivityError, detail); err != nil {
		logger.Warn(ctx, "failed to record error activity", "error", err, "detail", detail)
	}
}

// Search queries the log with optional filters, newest first.
func (s *Service) Search(ctx context.Context, q Query) ([]Entry, error) {
	return s.repo.Search(ctx, q)
}
