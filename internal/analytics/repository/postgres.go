package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"sitescope/backend/internal/analytics/domain"
	"sitescope/backend/internal/apperr"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a snapshot repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one snapshot row. BotBreakdown is stored as jsonb.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Snapshot) error {
	breakdown := s.BotBreakdown
	if breakdown == nil {
		breakdown = map[string]int64{}
	}
	raw, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("%w: encode bot breakdown: %v", apperr.ErrInvalidArgument, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analytics_snapshots (id, website_id, total_visitors, bot_traffic_count, bot_breakdown, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID,
		s.WebsiteID,
		s.TotalVisitors,
		s.BotTrafficCount,
		raw,
		s.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: create snapshot: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// ListByWebsite returns the website's snapshots, newest first.
func (r *PostgresRepository) ListByWebsite(ctx context.Context, websiteID string, limit int) ([]*domain.Snapshot, error) {
	query := `
		SELECT id, website_id, total_visitors, bot_traffic_count, bot_breakdown, recorded_at
		FROM analytics_snapshots
		WHERE website_id = $1
		ORDER BY recorded_at DESC`
	args := []any{websiteID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list snapshots: %v", apperr.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*domain.Snapshot
	for rows.Next() {
		var s domain.Snapshot
		var raw []byte
		if err := rows.Scan(&s.ID, &s.WebsiteID, &s.TotalVisitors, &s.BotTrafficCount, &raw, &s.RecordedAt); err != nil {
			return nil, fmt.Errorf("%w: scan snapshot: %v", apperr.ErrUnavailable, err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &s.BotBreakdown); err != nil {
				return nil, fmt.Errorf("%w: decode bot breakdown: %v", apperr.ErrUnavailable, err)
			}
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list snapshots: %v", apperr.ErrUnavailable, err)
	}
	return out, nil
}
