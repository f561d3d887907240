package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one audit log row.
func (r *PostgresRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, tenant_id, user_id, action, resource, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		entry.TenantID,
		entry.UserID,
		entry.Action,
		entry.Resource,
		entry.Metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: create audit log: %v", apperr.ErrUnavailable, err)
	}
	return nil
}
