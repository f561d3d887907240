package domain

import "time"

// AuditLog is one immutable record of an identity or tenant state change.
// Rows are append-only; nothing in normal flow deletes them.
type AuditLog struct {
	ID        string
	TenantID  string
	UserID    string
	Action    string // e.g. "register", "invite_member", "accept_invitation"
	Resource  string // e.g. "user:<id>", "invitation:<id>"
	Metadata  string // free-form JSON or empty
	CreatedAt time.Time
}
