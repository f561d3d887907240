package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/audit"
	invitationdomain "sitescope/backend/internal/invitation/domain"
	"sitescope/backend/internal/security"
	userdomain "sitescope/backend/internal/user/domain"
)

// UserRepo is the minimal user repository needed by the identity service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	ListByClient(ctx context.Context, clientID string, role userdomain.Role) ([]*userdomain.User, error)
}

// InvitationRepo is the minimal invitation repository needed by the identity
// service.
type InvitationRepo interface {
	GetByToken(ctx context.Context, token string) (*invitationdomain.Invitation, error)
	GetPendingByClientAndEmail(ctx context.Context, clientID, email string) (*invitationdomain.Invitation, error)
	Create(ctx context.Context, inv *invitationdomain.Invitation) error
	ListPendingByClient(ctx context.Context, clientID string) ([]*invitationdomain.Invitation, error)
	MarkAccepted(ctx context.Context, id string) (bool, error)
	MarkExpired(ctx context.Context, id string) (bool, error)
}

// Signup carries the caller-supplied fields for account creation.
type Signup struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// AuthResult holds the outcome of Authenticate: a signed session credential
// plus the subject's sanitized profile and effective tenant id.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	TenantID  string
	Profile   userdomain.Profile
}

// InvitationPreview is the read-only view returned by ValidateInvitation for
// UI prefill. It exposes the inviting client's display name, never its
// credentials.
type InvitationPreview struct {
	Email      string
	Name       string
	ClientName string
	ExpiresAt  time.Time
}

// IdentityService orchestrates account creation, client onboarding,
// team-member invitation/acceptance, and authentication. It is the sole
// writer of the user and invitation state machines; the repositories are
// dumb persistence. It holds no cross-request mutable state, so concurrent
// correctness rests on the stores' conditional-update guarantees.
type IdentityService struct {
	users       UserRepo
	invitations InvitationRepo
	hasher      *security.Hasher
	tokens      *security.TokenProvider
	inviteTTL   time.Duration
	auditLog    audit.AuditLogger
}

// NewIdentityService returns an IdentityService with the given dependencies.
// auditLog may be nil; auditing is then disabled.
func NewIdentityService(
	users UserRepo,
	invitations InvitationRepo,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	inviteTTL time.Duration,
	auditLog audit.AuditLogger,
) *IdentityService {
	return &IdentityService{
		users:       users,
		invitations: invitations,
		hasher:      hasher,
		tokens:      tokens,
		inviteTTL:   inviteTTL,
		auditLog:    auditLog,
	}
}

// Register creates a self-service account with role CLIENT.
func (s *IdentityService) Register(ctx context.Context, p Signup) (userdomain.Profile, error) {
	profile, err := s.createAccount(ctx, p, userdomain.RoleClient, nil)
	if err != nil {
		return userdomain.Profile{}, err
	}
	s.logEvent(ctx, profile.ID, profile.ID, "register", "user:"+profile.ID)
	return profile, nil
}

// OnboardClient creates a CLIENT account on behalf of an administrator.
// Authorization (caller holds ADMIN) is enforced at the entry point via the
// access guard, not here.
func (s *IdentityService) OnboardClient(ctx context.Context, p Signup) (userdomain.Profile, error) {
	profile, err := s.createAccount(ctx, p, userdomain.RoleClient, nil)
	if err != nil {
		return userdomain.Profile{}, err
	}
	s.logEvent(ctx, profile.ID, profile.ID, "onboard_client", "user:"+profile.ID)
	return profile, nil
}

// CreateTeamMember creates a MEMBER under the given client directly,
// bypassing the invitation flow. clientID must resolve to a user whose role
// is exactly CLIENT.
func (s *IdentityService) CreateTeamMember(ctx context.Context, clientID string, p Signup) (userdomain.Profile, error) {
	client, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return userdomain.Profile{}, err
	}
	if client == nil {
		return userdomain.Profile{}, fmt.Errorf("%w: client %s", apperr.ErrNotFound, clientID)
	}
	if client.Role != userdomain.RoleClient {
		return userdomain.Profile{}, fmt.Errorf("%w: user %s is not a client", apperr.ErrInvalidRole, clientID)
	}
	profile, err := s.createAccount(ctx, p, userdomain.RoleMember, &client.ID)
	if err != nil {
		return userdomain.Profile{}, err
	}
	s.logEvent(ctx, client.ID, profile.ID, "create_team_member", "user:"+profile.ID)
	return profile, nil
}

// InviteTeamMember creates a PENDING invitation from the client to email with
// an unguessable token and a fixed expiry horizon. Rejects early when the
// email already belongs to a user or has an active invitation from the same
// client, to avoid wasted tokens.
func (s *IdentityService) InviteTeamMember(ctx context.Context, clientID, email, name string) (*invitationdomain.Invitation, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	client, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client %s", apperr.ErrNotFound, clientID)
	}
	if client.Role != userdomain.RoleClient {
		return nil, fmt.Errorf("%w: user %s is not a client", apperr.ErrInvalidRole, clientID)
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	}
	pending, err := s.invitations.GetPendingByClientAndEmail(ctx, clientID, email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("%w: invitation already pending for %s", apperr.ErrConflict, email)
	}
	token, err := security.NewInviteToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	inv := &invitationdomain.Invitation{
		ID:        uuid.New().String(),
		Email:     email,
		Token:     token,
		ClientID:  clientID,
		Name:      strings.TrimSpace(name),
		ExpiresAt: now.Add(s.inviteTTL),
		Status:    invitationdomain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.logEvent(ctx, clientID, clientID, "invite_member", "invitation:"+inv.ID)
	return inv, nil
}

// ValidateInvitation looks up a PENDING invitation by token for UI prefill.
// Read-only: an invitation found past its deadline reports ErrExpired without
// mutating state; the corrective write happens only in AcceptInvitation.
func (s *IdentityService) ValidateInvitation(ctx context.Context, token string) (*InvitationPreview, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Status != invitationdomain.StatusPending {
		return nil, fmt.Errorf("%w: invitation", apperr.ErrNotFound)
	}
	if inv.ExpiredAt(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: invitation", apperr.ErrExpired)
	}
	clientName := ""
	if client, err := s.users.GetByID(ctx, inv.ClientID); err == nil && client != nil {
		clientName = client.Name
	}
	return &InvitationPreview{
		Email:      inv.Email,
		Name:       inv.Name,
		ClientName: clientName,
		ExpiresAt:  inv.ExpiresAt,
	}, nil
}

// AcceptInvitation redeems a PENDING invitation: it creates the MEMBER
// account (email taken from the invitation, never the caller, to prevent
// email-swap) and transitions the invitation to ACCEPTED. The member row is
// created before the transition so a crash in between self-heals: the next
// accept attempt fails Conflict on the now-existing email. Concurrent accepts
// of one token serialize on the store's conditional update and on the unique
// email constraint; exactly one caller wins.
func (s *IdentityService) AcceptInvitation(ctx context.Context, token, name, password, phone string) (userdomain.Profile, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return userdomain.Profile{}, err
	}
	if inv == nil || inv.Status != invitationdomain.StatusPending {
		return userdomain.Profile{}, fmt.Errorf("%w: invitation", apperr.ErrNotFound)
	}
	if inv.ExpiredAt(time.Now().UTC()) {
		// Lazy expiry: the only read path that performs a corrective write.
		if _, err := s.invitations.MarkExpired(ctx, inv.ID); err != nil {
			return userdomain.Profile{}, err
		}
		return userdomain.Profile{}, fmt.Errorf("%w: invitation", apperr.ErrExpired)
	}
	existing, err := s.users.GetByEmail(ctx, inv.Email)
	if err != nil {
		return userdomain.Profile{}, err
	}
	if existing != nil {
		return userdomain.Profile{}, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	}
	profile, err := s.createAccount(ctx, Signup{
		Name:     strings.TrimSpace(name),
		Email:    inv.Email,
		Password: password,
		Phone:    strings.TrimSpace(phone),
	}, userdomain.RoleMember, &inv.ClientID)
	if err != nil {
		return userdomain.Profile{}, err
	}
	transitioned, err := s.invitations.MarkAccepted(ctx, inv.ID)
	if err != nil {
		return userdomain.Profile{}, err
	}
	if !transitioned {
		// Lost the race against a concurrent accept or expiry after our user
		// write; report the collision rather than pretending to have redeemed.
		return userdomain.Profile{}, fmt.Errorf("%w: invitation already redeemed", apperr.ErrConflict)
	}
	s.logEvent(ctx, inv.ClientID, profile.ID, "accept_invitation", "invitation:"+inv.ID)
	return profile, nil
}

// Authenticate verifies email/password and mints a session credential. The
// failure is uniformly Unauthenticated whether the email is unknown, the
// account disabled, or the password wrong (enumeration resistance).
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.logEvent(ctx, "", user.ID, "login_failure", "user:"+user.ID)
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
	}
	tenantID := EffectiveTenantID(user)
	token, expiresAt, err := s.tokens.Issue(user.ID, string(user.Role), tenantID)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, tenantID, user.ID, "login", "user:"+user.ID)
	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		TenantID:  tenantID,
		Profile:   user.Sanitized(),
	}, nil
}

// ListTeamMembers returns the sanitized MEMBER accounts owned by clientID.
func (s *IdentityService) ListTeamMembers(ctx context.Context, clientID string) ([]userdomain.Profile, error) {
	client, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client %s", apperr.ErrNotFound, clientID)
	}
	if client.Role != userdomain.RoleClient {
		return nil, fmt.Errorf("%w: user %s is not a client", apperr.ErrInvalidRole, clientID)
	}
	members, err := s.users.ListByClient(ctx, clientID, userdomain.RoleMember)
	if err != nil {
		return nil, err
	}
	out := make([]userdomain.Profile, len(members))
	for i, m := range members {
		out[i] = m.Sanitized()
	}
	return out, nil
}

// ListPendingInvitations returns the client's open invitations.
func (s *IdentityService) ListPendingInvitations(ctx context.Context, clientID string) ([]*invitationdomain.Invitation, error) {
	return s.invitations.ListPendingByClient(ctx, clientID)
}

// EffectiveTenantID computes the tenant a credential should be scoped to:
// the owning CLIENT's id for a MEMBER, the user's own id otherwise.
func EffectiveTenantID(u *userdomain.User) string {
	if u.Role == userdomain.RoleMember && u.ClientID != nil {
		return *u.ClientID
	}
	return u.ID
}

func (s *IdentityService) createAccount(ctx context.Context, p Signup, role userdomain.Role, clientID *string) (userdomain.Profile, error) {
	email := normalizeEmail(p.Email)
	if err := validateEmail(email); err != nil {
		return userdomain.Profile{}, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	if err := validatePassword(p.Password); err != nil {
		return userdomain.Profile{}, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return userdomain.Profile{}, err
	}
	if existing != nil {
		return userdomain.Profile{}, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	}
	hashed, err := s.hasher.Hash([]byte(p.Password))
	if err != nil {
		return userdomain.Profile{}, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(p.Name),
		Email:        email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(p.Phone),
		Address:      strings.TrimSpace(p.Address),
		Role:         role,
		ClientID:     clientID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return userdomain.Profile{}, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	// The unique email constraint is the authority; the GetByEmail probe above
	// only gives a friendlier early failure.
	if err := s.users.Create(ctx, user); err != nil {
		return userdomain.Profile{}, err
	}
	return user.Sanitized(), nil
}

func (s *IdentityService) logEvent(ctx context.Context, tenantID, userID, action, resource string) {
	if s.auditLog == nil {
		return
	}
	s.auditLog.LogEvent(ctx, tenantID, userID, action, resource, "")
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return errors.New("password must contain letters and numbers")
	}
	return nil
}
