package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3"
	josejwt "github.com/go-jose/go-jose/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims josejwt.Claims) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.ES256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT").WithHeader("kid", "admin-key-1"),
	)
	require.NoError(t, err)

	token, err := josejwt.Signed(signer).Claims(claims).CompactSerialize()
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signToken(t, josejwt.Claims{
		Issuer:   "ud-server",
		Subject:  "root",
		Audience: josejwt.Audience{"udctl"},
		ID:       "tok-1",
		IssuedAt: josejwt.NewNumericDate(issued),
		Expiry:   josejwt.NewNumericDate(issued.Add(time.Hour)),
	})

	info, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "ES256", info.Algorithm)
	assert.Equal(t, "admin-key-1", info.KeyID)
	assert.Equal(t, "ud-server", info.Issuer)
	assert.Equal(t, "root", info.Subject)
	assert.Equal(t, []string{"udctl"}, info.Audience)
	assert.Equal(t, "tok-1", info.ID)
	assert.Equal(t, issued, info.IssuedAt)
	assert.True(t, info.NotBefore.IsZero())

	assert.False(t, info.Expired(issued.Add(30*time.Minute)))
	assert.True(t, info.Expired(issued.Add(2*time.Hour)))
}

func TestInspect_NoExpiryNeverExpires(t *testing.T) {
	info, err := Inspect(signToken(t, josejwt.Claims{Subject: "root"}))
	require.NoError(t, err)
	assert.False(t, info.Expired(time.Now().Add(100*365*24*time.Hour)))
}

func TestInspect_Opaque(t *testing.T) {
	for _, token := range []string{"3f9a1c0d2b", "", "a.b", "not.a.jwt"} {
		_, err := Inspect(token)
		assert.True(t, errors.Is(err, ErrNotJWT), "%q: %v", token, err)
	}
}
