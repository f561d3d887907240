package rbac

import (
	"errors"
	"testing"
	"time"

	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/security"
	userdomain "sitescope/backend/internal/user/domain"
)

func issue(t *testing.T, tokens *security.TokenProvider, role userdomain.Role) string {
	t.Helper()
	token, _, err := tokens.Issue("user-1", string(role), "tenant-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func TestGuardAuthorize(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	guard := NewGuard(tokens)

	clientToken := issue(t, tokens, userdomain.RoleClient)

	claims, err := guard.Authorize(clientToken, userdomain.RoleClient, userdomain.RoleAdmin)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if claims.UserID != "user-1" || claims.TenantID != "tenant-1" {
		t.Errorf("claims: %+v", claims)
	}

	// Role not in the allowed set.
	if _, err := guard.Authorize(clientToken, userdomain.RoleAdmin); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("disallowed role: want ErrForbidden, got %v", err)
	}

	// Empty allowed set admits any authenticated caller.
	if _, err := guard.Authorize(clientToken); err != nil {
		t.Errorf("open endpoint: %v", err)
	}

	if _, err := guard.Authorize(""); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("missing credential: want ErrUnauthenticated, got %v", err)
	}
	if _, err := guard.Authorize("not-a-jwt", userdomain.RoleClient); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("malformed credential: want ErrUnauthenticated, got %v", err)
	}
}

func TestGuardExpiredBeatsForbidden(t *testing.T) {
	tokens, err := security.NewTestTokenProviderTTL(-time.Minute)
	if err != nil {
		t.Fatalf("NewTestTokenProviderTTL: %v", err)
	}
	guard := NewGuard(tokens)
	expired := issue(t, tokens, userdomain.RoleMember)

	// Even when the role would also fail, expiry is reported as
	// unauthenticated, never forbidden.
	_, err = guard.Authorize(expired, userdomain.RoleAdmin)
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("expired credential: want ErrUnauthenticated, got %v", err)
	}
	if errors.Is(err, apperr.ErrForbidden) {
		t.Error("expired credential must not surface as forbidden")
	}
}

func TestSameTenant(t *testing.T) {
	member := &security.SessionClaims{UserID: "u1", Role: string(userdomain.RoleMember), TenantID: "acme"}
	if err := SameTenant(member, "acme"); err != nil {
		t.Errorf("own tenant: %v", err)
	}
	if err := SameTenant(member, "globex"); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("foreign tenant: want ErrForbidden, got %v", err)
	}

	admin := &security.SessionClaims{UserID: "a1", Role: string(userdomain.RoleAdmin), TenantID: "a1"}
	if err := SameTenant(admin, "anything"); err != nil {
		t.Errorf("admin crosses tenants: %v", err)
	}
}
