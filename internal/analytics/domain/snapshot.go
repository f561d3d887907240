// Package domain defines analytics snapshots: periodic traffic counters
// recorded per website.
package domain

import (
	"fmt"
	"time"

	"sitescope/backend/internal/apperr"
)

// Snapshot is one recorded traffic observation for a website. BotBreakdown
// maps bot category (e.g. "crawler", "scraper") to hit count.
type Snapshot struct {
	ID              string
	WebsiteID       string
	TotalVisitors   int64
	BotTrafficCount int64
	BotBreakdown    map[string]int64
	RecordedAt      time.Time
}

// Validate checks structural invariants.
func (s *Snapshot) Validate() error {
	if s.WebsiteID == "" {
		return fmt.Errorf("%w: website id is required", apperr.ErrInvalidArgument)
	}
	if s.TotalVisitors < 0 || s.BotTrafficCount < 0 {
		return fmt.Errorf("%w: counters must be non-negative", apperr.ErrInvalidArgument)
	}
	if s.BotTrafficCount > s.TotalVisitors {
		return fmt.Errorf("%w: bot traffic cannot exceed total visitors", apperr.ErrInvalidArgument)
	}
	return nil
}
