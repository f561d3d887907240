package security

import (
	"crypto/rand"
	"encoding/base64"
)

// inviteTokenBytes gives 256 bits of entropy, comfortably above the 128-bit
// floor required for unguessable invitation tokens.
const inviteTokenBytes = 32

// NewInviteToken returns a URL-safe, unguessable invitation token drawn from
// crypto/rand. Tokens are unique for all practical purposes; the store's
// unique constraint backstops collisions.
func NewInviteToken() (string, error) {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
