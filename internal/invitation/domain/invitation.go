package domain

import (
	"errors"
	"time"
)

// Invitation is a time-bounded offer from a CLIENT to a prospective MEMBER.
// The token is unique, unguessable, and immutable after creation. Status
// transitions are monotone: PENDING -> ACCEPTED or PENDING -> EXPIRED, both
// terminal. Rows are never deleted by normal flow; they remain as an audit
// record.
type Invitation struct {
	ID        string
	Email     string
	Token     string
	ClientID  string // the inviting CLIENT's id
	Name      string // optional prefill for the invitee
	ExpiresAt time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
)

// Validate validates the invitation for persistence.
func (i *Invitation) Validate() error {
	if i.Email == "" {
		return errors.New("email is required")
	}
	if i.Token == "" {
		return errors.New("token is required")
	}
	if i.ClientID == "" {
		return errors.New("client id is required")
	}
	if i.ExpiresAt.IsZero() {
		return errors.New("expiry is required")
	}
	return nil
}

// ExpiredAt reports whether the invitation is past its deadline at now.
// The status field is not consulted; callers decide whether to persist the
// EXPIRED transition (lazy expiry).
func (i *Invitation) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
