package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/invitation/domain"
)

const invitationColumns = "id, email, token, client_id, name, expires_at, status, created_at, updated_at"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an invitation repository that uses the given
// db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByToken returns the invitation with the given token, or nil if not found.
func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+invitationColumns+" FROM invitations WHERE token = $1", token)
	return scanInvitation(row)
}

// GetPendingByClientAndEmail returns the PENDING invitation from clientID to
// email, or nil.
func (r *PostgresRepository) GetPendingByClientAndEmail(ctx context.Context, clientID, email string) (*domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+invitationColumns+` FROM invitations
		WHERE client_id = $1 AND email = $2 AND status = $3`,
		clientID, email, string(domain.StatusPending))
	return scanInvitation(row)
}

// Create persists the invitation. A token collision surfaces as
// apperr.ErrConflict via the unique constraint.
func (r *PostgresRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID,
		inv.Email,
		inv.Token,
		inv.ClientID,
		nullable(inv.Name),
		inv.ExpiresAt,
		string(inv.Status),
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invitation token already exists", apperr.ErrConflict)
		}
		return fmt.Errorf("%w: create invitation: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// ListPendingByClient returns the client's PENDING invitations, newest first.
func (r *PostgresRepository) ListPendingByClient(ctx context.Context, clientID string) ([]*domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+invitationColumns+` FROM invitations
		WHERE client_id = $1 AND status = $2
		ORDER BY created_at DESC`, clientID, string(domain.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("%w: list pending invitations: %v", apperr.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list pending invitations: %v", apperr.ErrUnavailable, err)
	}
	return out, nil
}

// MarkAccepted transitions the invitation to ACCEPTED iff still PENDING.
func (r *PostgresRepository) MarkAccepted(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, domain.StatusAccepted)
}

// MarkExpired transitions the invitation to EXPIRED iff still PENDING.
func (r *PostgresRepository) MarkExpired(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, domain.StatusExpired)
}

func (r *PostgresRepository) transition(ctx context.Context, id string, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`,
		string(to), id, string(domain.StatusPending))
	if err != nil {
		return false, fmt.Errorf("%w: transition invitation to %s: %v", apperr.ErrUnavailable, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: transition invitation to %s: %v", apperr.ErrUnavailable, to, err)
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	var inv domain.Invitation
	var name sql.NullString
	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.Token,
		&inv.ClientID,
		&name,
		&inv.ExpiresAt,
		&inv.Status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: scan invitation: %v", apperr.ErrUnavailable, err)
	}
	inv.Name = name.String
	return &inv, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
