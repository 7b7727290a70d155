package fingerprint

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"ud-control/internal/logging"
)

func newAuthorizedKey(t *testing.T, comment string) (string, ssh.PublicKey) {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)

	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		line += " " + comment
	}
	return line, sshPub
}

func TestParseAuthorizedKey(t *testing.T) {
	line, pub := newAuthorizedKey(t, "alice@laptop")

	key, err := ParseAuthorizedKey("  " + line + "\n")
	require.NoError(t, err)
	assert.Equal(t, pub.Marshal(), key.Marshal())

	_, err = ParseAuthorizedKey("")
	assert.Error(t, err)

	_, err = ParseAuthorizedKey("ssh-ed25519 not-base64")
	assert.Error(t, err)

	other, _ := newAuthorizedKey(t, "")
	_, err = ParseAuthorizedKey(line + "\n" + other)
	assert.Error(t, err, "only one key per --ssh-key")
}

func TestFromAuthorizedKey(t *testing.T) {
	line, pub := newAuthorizedKey(t, "")

	fp, err := FromAuthorizedKey(line)
	require.NoError(t, err)
	assert.Equal(t, ssh.FingerprintSHA256(pub), fp)
	assert.True(t, strings.HasPrefix(fp, "SHA256:"))
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	line, pub := newAuthorizedKey(t, "root@web-01")
	path := filepath.Join(dir, "ssh_host_ed25519_key.pub")
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0644))

	fp, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ssh.FingerprintSHA256(pub), fp)

	_, err = FromFile(filepath.Join(dir, "missing.pub"))
	assert.Error(t, err)
}

func TestHostFingerprint(t *testing.T) {
	dir := t.TempDir()
	line, pub := newAuthorizedKey(t, "")

	garbage := filepath.Join(dir, "ssh_host_ecdsa_key.pub")
	require.NoError(t, os.WriteFile(garbage, []byte("garbage"), 0644))
	good := filepath.Join(dir, "ssh_host_rsa_key.pub")
	require.NoError(t, os.WriteFile(good, []byte(line), 0644))

	paths := []string{filepath.Join(dir, "ssh_host_ed25519_key.pub"), garbage, good}
	fp, err := HostFingerprint(paths, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, ssh.FingerprintSHA256(pub), fp)

	_, err = HostFingerprint([]string{filepath.Join(dir, "none.pub")}, logging.Discard())
	assert.True(t, errors.Is(err, ErrNoHostKey))
}
