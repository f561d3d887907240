package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/website/domain"
)

const websiteColumns = "id, domain, platform, status, dark_visitor_property_id, client_id, created_at, updated_at"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a website repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the website for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Website, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+websiteColumns+" FROM websites WHERE id = $1", id)
	return scanWebsite(row)
}

// Create persists the website. A duplicate (client, domain) pair surfaces as
// apperr.ErrConflict via the unique constraint.
func (r *PostgresRepository) Create(ctx context.Context, w *domain.Website) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO websites (`+websiteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID,
		w.Domain,
		string(w.Platform),
		string(w.Status),
		nullable(w.DarkVisitorPropertyID),
		w.ClientID,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: domain already tracked for this client", apperr.ErrConflict)
		}
		return fmt.Errorf("%w: create website: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// Update rewrites the mutable columns of the website row.
func (r *PostgresRepository) Update(ctx context.Context, w *domain.Website) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE websites
		SET domain = $1, platform = $2, status = $3,
		    dark_visitor_property_id = $4, updated_at = $5
		WHERE id = $6`,
		w.Domain,
		string(w.Platform),
		string(w.Status),
		nullable(w.DarkVisitorPropertyID),
		w.UpdatedAt,
		w.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: domain already tracked for this client", apperr.ErrConflict)
		}
		return fmt.Errorf("%w: update website: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// Delete removes the website row; snapshots cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM websites WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("%w: delete website: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// ListByClient returns the client's websites, newest first.
func (r *PostgresRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Website, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+websiteColumns+` FROM websites
		WHERE client_id = $1
		ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: list websites: %v", apperr.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*domain.Website
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list websites: %v", apperr.ErrUnavailable, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWebsite(row rowScanner) (*domain.Website, error) {
	var w domain.Website
	var propertyID sql.NullString
	err := row.Scan(
		&w.ID,
		&w.Domain,
		&w.Platform,
		&w.Status,
		&propertyID,
		&w.ClientID,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: scan website: %v", apperr.ErrUnavailable, err)
	}
	w.DarkVisitorPropertyID = propertyID.String
	return &w, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
