package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a credential is malformed, has a bad
	// signature, or fails issuer/audience checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a credential is past its exp claim.
	// Expiry is the only invalidation mechanism; there is no revocation list.
	ErrExpiredToken = errors.New("expired token")
)

// SessionClaims is the decoded identity and authorization payload of a
// session credential. TenantID is the effective tenant id: the owning
// CLIENT's id for a MEMBER, the subject's own id for CLIENT and ADMIN.
type SessionClaims struct {
	UserID    string
	Role      string
	TenantID  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionJWTClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	ClientID string `json:"client_id"`
}

// TokenProvider issues and verifies self-contained session credentials as
// JWTs signed with RS256 or ES256 (private/public key). The credential embeds
// role and effective tenant id so authorization needs no store round-trip.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	accessTTL  time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given private
// key (RSA or ECDSA). issuer and audience are set on claims and checked on
// verification.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
	}
}

// Issue mints a signed, time-bounded session credential for the given
// subject, role, and effective tenant id. Returns the token string and its
// expiration time.
func (p *TokenProvider) Issue(userID, role, tenantID string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := sessionJWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:     role,
		ClientID: tenantID,
	}
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", time.Time{}, ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	token, err = t.SignedString(p.privateKey)
	return token, expiresAt, err
}

// Verify parses and validates the credential (signature, exp, iss, aud) and
// returns the decoded claims. Fails with ErrExpiredToken when past exp and
// ErrInvalidToken for every other defect.
func (p *TokenProvider) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return p.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*sessionJWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	out := &SessionClaims{
		UserID:   claims.Subject,
		Role:     claims.Role,
		TenantID: claims.ClientID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
