package rbac

import (
	"fmt"

	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/security"
	userdomain "sitescope/backend/internal/user/domain"
)

// TokenVerifier validates a session credential and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*security.SessionClaims, error)
}

// Guard performs the authentication and role checks for protected
// operations. Authentication failures always win over authorization
// failures: an expired or malformed credential is reported as
// unauthenticated regardless of the roles being checked.
type Guard struct {
	tokens TokenVerifier
}

// NewGuard returns a Guard backed by the given verifier.
func NewGuard(tokens TokenVerifier) *Guard {
	return &Guard{tokens: tokens}
}

// Authorize verifies the credential and checks that the caller holds one
// of the allowed roles. An empty allowed set means any authenticated
// caller passes.
func (g *Guard) Authorize(token string, allowed ...userdomain.Role) (*security.SessionClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing credential", apperr.ErrUnauthenticated)
	}
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}
	if len(allowed) == 0 {
		return claims, nil
	}
	role := userdomain.Role(claims.Role)
	for _, r := range allowed {
		if role == r {
			return claims, nil
		}
	}
	return nil, fmt.Errorf("%w: role %s not permitted", apperr.ErrForbidden, claims.Role)
}

// SameTenant reports whether the caller may touch a resource owned by
// tenantID. ADMIN spans all tenants; everyone else is confined to their
// own effective tenant.
func SameTenant(claims *security.SessionClaims, tenantID string) error {
	if userdomain.Role(claims.Role) == userdomain.RoleAdmin {
		return nil
	}
	if claims.TenantID != tenantID {
		return fmt.Errorf("%w: resource belongs to another tenant", apperr.ErrForbidden)
	}
	return nil
}
