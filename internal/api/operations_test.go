package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ud-control/internal/auth"
)

func TestCatalogue(t *testing.T) {
	ops := []Operation{
		Health, Bootstrap, Login,
		CreateUser, CreateGroup, AddMember,
		EnrollDevice, CreatePolicy, ListAudit,
		KerberosSyncUser, KerberosSyncDevice,
		FetchAuthorizedKeys,
	}

	names := make(map[string]bool)
	for _, op := range ops {
		assert.False(t, names[op.Name], "duplicate operation %s", op.Name)
		names[op.Name] = true
		assert.NotEmpty(t, op.Method)
		assert.NotEmpty(t, op.Path)
	}

	assert.Equal(t, auth.RequireNone, Health.Auth)
	assert.Equal(t, auth.RequireNone, Bootstrap.Auth)
	assert.Equal(t, auth.RequireNone, Login.Auth)
	assert.Equal(t, auth.RequireClientIdentity, FetchAuthorizedKeys.Auth)
	for _, op := range []Operation{CreateUser, CreateGroup, AddMember, EnrollDevice, CreatePolicy, ListAudit, KerberosSyncUser, KerberosSyncDevice} {
		assert.Equal(t, auth.RequireBearer, op.Auth, op.Name)
	}

	assert.Equal(t, ResponseNone, AddMember.Response)
	assert.Equal(t, ResponseText, Health.Response)
	assert.Equal(t, ResponseText, FetchAuthorizedKeys.Response)
	assert.Equal(t, http.MethodGet, ListAudit.Method)
}

func TestResolvePath(t *testing.T) {
	path, err := AddMember.ResolvePath(map[string]string{"group_id": "5f0c8a52-3e53-4a4e-9d0a-8c1f0b6f9b11"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/groups/5f0c8a52-3e53-4a4e-9d0a-8c1f0b6f9b11/members", path)

	path, err = KerberosSyncDevice.ResolvePath(map[string]string{"device_id": "a/b c"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/kerberos/devices/a%2Fb%20c/commands", path)

	_, err = KerberosSyncUser.ResolvePath(nil)
	assert.ErrorContains(t, err, "user_id")

	path, err = Health.ResolvePath(nil)
	require.NoError(t, err)
	assert.Equal(t, "/health", path)
}

func TestCallURL(t *testing.T) {
	base, err := url.Parse("https://ud.example:8443")
	require.NoError(t, err)

	t.Run("query is encoded", func(t *testing.T) {
		u, err := Call{
			Op:    FetchAuthorizedKeys,
			Query: url.Values{"username": {"alice"}, "host_fingerprint": {"SHA256:abc+/="}},
		}.URL(base)
		require.NoError(t, err)
		assert.Equal(t, "/v1/ssh/authorized_keys", u.Path)
		assert.Equal(t, "alice", u.Query().Get("username"))
		assert.Equal(t, "SHA256:abc+/=", u.Query().Get("host_fingerprint"))
	})

	t.Run("base path prefix is kept", func(t *testing.T) {
		prefixed, err := url.Parse("https://ud.example/api/")
		require.NoError(t, err)

		u, err := Call{Op: ListAudit, Query: url.Values{"limit": {"5"}}}.URL(prefixed)
		require.NoError(t, err)
		assert.Equal(t, "https://ud.example/api/v1/audit?limit=5", u.String())
	})

	t.Run("escaped path param survives", func(t *testing.T) {
		u, err := Call{Op: KerberosSyncUser, PathParams: map[string]string{"user_id": "a/b"}}.URL(base)
		require.NoError(t, err)
		assert.Equal(t, "https://ud.example:8443/v1/kerberos/users/a%2Fb/commands", u.String())
	})

	t.Run("base is not modified", func(t *testing.T) {
		_, err := Call{Op: Health}.URL(base)
		require.NoError(t, err)
		assert.Equal(t, "https://ud.example:8443", base.String())
	})
}
