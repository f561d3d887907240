package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"sitescope/backend/internal/analytics/domain"
	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/security"
	userdomain "sitescope/backend/internal/user/domain"
	websitedomain "sitescope/backend/internal/website/domain"
)

type memSnapshotRepo struct {
	mu   sync.Mutex
	rows []*domain.Snapshot
}

func (r *memSnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s2 := *s
	r.rows = append(r.rows, &s2)
	return nil
}

func (r *memSnapshotRepo) ListByWebsite(ctx context.Context, websiteID string, limit int) ([]*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Snapshot
	for _, s := range r.rows {
		if s.WebsiteID == websiteID {
			s2 := *s
			out = append(out, &s2)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memWebsiteStore struct {
	byID map[string]*websitedomain.Website
}

func (s *memWebsiteStore) GetByID(ctx context.Context, id string) (*websitedomain.Website, error) {
	if w, ok := s.byID[id]; ok {
		w2 := *w
		return &w2, nil
	}
	return nil, nil
}

func newTestService() (*AnalyticsService, *memSnapshotRepo) {
	snapshots := &memSnapshotRepo{}
	websites := &memWebsiteStore{byID: map[string]*websitedomain.Website{
		"site-1": {ID: "site-1", Domain: "acme.com", ClientID: "acme", Platform: websitedomain.PlatformOther, Status: websitedomain.StatusActive},
	}}
	return NewAnalyticsService(snapshots, websites), snapshots
}

func claimsFor(role userdomain.Role, userID, tenantID string) *security.SessionClaims {
	return &security.SessionClaims{UserID: userID, Role: string(role), TenantID: tenantID}
}

func TestAnalyticsService_RecordAndList(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	acme := claimsFor(userdomain.RoleClient, "acme", "acme")

	snap, err := svc.Record(ctx, acme, RecordSnapshot{
		WebsiteID:       "site-1",
		TotalVisitors:   100,
		BotTrafficCount: 40,
		BotBreakdown:    map[string]int64{"crawler": 30, "scraper": 10},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if snap.ID == "" || snap.RecordedAt.IsZero() {
		t.Errorf("snapshot not stamped: %+v", snap)
	}

	got, err := svc.ListByWebsite(ctx, acme, "site-1", 0)
	if err != nil {
		t.Fatalf("ListByWebsite: %v", err)
	}
	if len(got) != 1 || got[0].BotBreakdown["crawler"] != 30 {
		t.Errorf("list: %+v", got)
	}
}

func TestAnalyticsService_RecordValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	acme := claimsFor(userdomain.RoleClient, "acme", "acme")

	if _, err := svc.Record(ctx, acme, RecordSnapshot{WebsiteID: "", TotalVisitors: 1}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("missing website id: want ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Record(ctx, acme, RecordSnapshot{WebsiteID: "site-1", TotalVisitors: -1}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("negative counter: want ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Record(ctx, acme, RecordSnapshot{WebsiteID: "site-1", TotalVisitors: 5, BotTrafficCount: 9}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("bots exceed total: want ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Record(ctx, acme, RecordSnapshot{WebsiteID: "missing"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown website: want ErrNotFound, got %v", err)
	}
}

func TestAnalyticsService_TenantIsolation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	globex := claimsFor(userdomain.RoleClient, "globex", "globex")
	member := claimsFor(userdomain.RoleMember, "bob", "acme")
	admin := claimsFor(userdomain.RoleAdmin, "root", "root")

	if _, err := svc.Record(ctx, globex, RecordSnapshot{WebsiteID: "site-1", TotalVisitors: 1}); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("foreign record: want ErrForbidden, got %v", err)
	}
	if _, err := svc.ListByWebsite(ctx, globex, "site-1", 0); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("foreign list: want ErrForbidden, got %v", err)
	}

	// Owning tenant's member and the admin both pass.
	if _, err := svc.Record(ctx, member, RecordSnapshot{WebsiteID: "site-1", TotalVisitors: 1}); err != nil {
		t.Errorf("member record: %v", err)
	}
	if _, err := svc.ListByWebsite(ctx, admin, "site-1", 0); err != nil {
		t.Errorf("admin list: %v", err)
	}
}

func TestAnalyticsService_ListLimit(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	acme := claimsFor(userdomain.RoleClient, "acme", "acme")

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		repo.rows = append(repo.rows, &domain.Snapshot{
			ID: string(rune('a' + i)), WebsiteID: "site-1",
			TotalVisitors: int64(i), RecordedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got, err := svc.ListByWebsite(ctx, acme, "site-1", 2)
	if err != nil {
		t.Fatalf("ListByWebsite: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit: got %d rows, want 2", len(got))
	}
	if !got[0].RecordedAt.After(got[1].RecordedAt) {
		t.Error("rows not newest first")
	}
}
