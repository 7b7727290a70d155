package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
)

// ErrNotJWT is returned for admin tokens that are opaque strings
var ErrNotJWT = errors.New("token is not a JWT")

// TokenInfo is what can be read from a token without its verification key
type TokenInfo struct {
	Algorithm string
	KeyID     string
	Issuer    string
	Subject   string
	Audience  []string
	ID        string
	IssuedAt  time.Time
	NotBefore time.Time
	Expiry    time.Time
}

// Inspect decodes a compact JWS token's header and registered claims. The
// signature is NOT verified; the server remains the only authority.
func Inspect(token string) (*TokenInfo, error) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return nil, ErrNotJWT
	}

	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	var claims jwt.Claims
	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode JWT claims: %w", err)
	}

	info := &TokenInfo{
		Issuer:   claims.Issuer,
		Subject:  claims.Subject,
		Audience: []string(claims.Audience),
		ID:       claims.ID,
	}
	if len(parsed.Headers) > 0 {
		info.Algorithm = parsed.Headers[0].Algorithm
		info.KeyID = parsed.Headers[0].KeyID
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time().UTC()
	}
	if claims.NotBefore != nil {
		info.NotBefore = claims.NotBefore.Time().UTC()
	}
	if claims.Expiry != nil {
		info.Expiry = claims.Expiry.Time().UTC()
	}

	return info, nil
}

// Expired reports whether the token carries an expiry that is before now
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.Expiry.IsZero() && now.After(t.Expiry)
}
