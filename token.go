package authclient

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenClaims is the subset of JWT claims the client reads from a session
// token. The signature is never verified; the values are informational.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// UserID returns the user id, falling back to the subject.
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject
}

// Expires returns the expiration time, zero when absent.
func (c *TokenClaims) Expires() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// ParseTokenClaims decodes token without verifying it. Opaque (non JWT)
// tokens return an error.
func ParseTokenClaims(token string) (*TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoActiveSession
	}
	if strings.Count(token, ".") != 2 {
		return nil, goerrors.New("session token is opaque", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to decode session token")
	}
	return claims, nil
}

// TokenExpiry returns the expiration carried by a JWT session token. ok is
// false for opaque tokens and tokens without an exp claim.
func (i Identity) TokenExpiry() (time.Time, bool) {
	claims, err := ParseTokenClaims(i.Token)
	if err != nil {
		return time.Time{}, false
	}
	exp := claims.Expires()
	return exp, !exp.IsZero()
}

// TokenExpired reports whether a JWT session token is past its expiration at
// now. Opaque tokens never report expired.
func (i Identity) TokenExpired(now time.Time) bool {
	exp, ok := i.TokenExpiry()
	if !ok {
		return false
	}
	return !now.Before(exp)
}
