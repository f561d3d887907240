package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/user/domain"
)

const userColumns = "id, name, email, password_hash, phone, address, role, client_id, active, created_at, updated_at"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for
// persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// Create persists the user. The user must have ID set; it is not assigned
// here. A duplicate email surfaces as apperr.ErrConflict via the unique
// constraint.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		nullable(u.Phone),
		nullable(u.Address),
		string(u.Role),
		u.ClientID,
		u.Active,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", apperr.ErrConflict)
		}
		return fmt.Errorf("%w: create user: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// ListByClient returns the users owned by clientID with the given role,
// newest first.
func (r *PostgresRepository) ListByClient(ctx context.Context, clientID string, role domain.Role) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+` FROM users
		WHERE client_id = $1 AND role = $2 AND active
		ORDER BY created_at DESC`, clientID, string(role))
	if err != nil {
		return nil, fmt.Errorf("%w: list users by client: %v", apperr.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list users by client: %v", apperr.ErrUnavailable, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var phone, address sql.NullString
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&phone,
		&address,
		&u.Role,
		&u.ClientID,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: scan user: %v", apperr.ErrUnavailable, err)
	}
	u.Phone = phone.String
	u.Address = address.String
	return &u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
