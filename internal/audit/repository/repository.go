package repository

import (
	"context"

	"sitescope/backend/internal/audit/domain"
)

// Repository defines persistence for audit log entries.
type Repository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}
