// Package domain defines the Website entity: a tracked site owned by a
// CLIENT tenant.
package domain

import (
	"fmt"
	"strings"
	"time"

	"sitescope/backend/internal/apperr"
)

// Platform is where the tracked site is deployed.
type Platform string

const (
	PlatformVercel       Platform = "vercel"
	PlatformNetlify      Platform = "netlify"
	PlatformAWS          Platform = "aws"
	PlatformDigitalOcean Platform = "digital_ocean"
	PlatformHeroku       Platform = "heroku"
	PlatformCloudflare   Platform = "cloudflare"
	PlatformSelfHosted   Platform = "self_hosted"
	PlatformOther        Platform = "other"
)

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformVercel, PlatformNetlify, PlatformAWS, PlatformDigitalOcean,
		PlatformHeroku, PlatformCloudflare, PlatformSelfHosted, PlatformOther:
		return true
	}
	return false
}

// Status is the tracking lifecycle of a website.
type Status string

const (
	// StatusPending means tracking is configured but not yet verified.
	StatusPending Status = "pending"
	// StatusActive means the site is verified and reporting.
	StatusActive Status = "active"
	// StatusFailed means verification or reporting broke.
	StatusFailed Status = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusFailed:
		return true
	}
	return false
}

// Website is a tracked site. ClientID is the owning tenant: the CLIENT whose
// team manages the site.
type Website struct {
	ID                    string
	Domain                string
	Platform              Platform
	Status                Status
	DarkVisitorPropertyID string
	ClientID              string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Validate checks structural invariants.
func (w *Website) Validate() error {
	if strings.TrimSpace(w.Domain) == "" {
		return fmt.Errorf("%w: domain is required", apperr.ErrInvalidArgument)
	}
	if !w.Platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", apperr.ErrInvalidArgument, w.Platform)
	}
	if !w.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidArgument, w.Status)
	}
	if w.ClientID == "" {
		return fmt.Errorf("%w: client id is required", apperr.ErrInvalidArgument)
	}
	return nil
}
