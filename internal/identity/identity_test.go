package identity

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateDeviceCert returns a self-signed certificate and its EC key as PEM
func generateDeviceCert(t *testing.T, cn string) (certPEM, keyPEM []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	certPEM, keyPEM := generateDeviceCert(t, "device-web-01")
	certPath := writeFile(t, dir, "device.crt", certPEM)
	keyPath := writeFile(t, dir, "device.key", keyPEM)

	id, err := Load(certPath, keyPath)
	require.NoError(t, err)
	assert.Equal(t, "device-web-01", id.Subject())
	assert.Len(t, id.Certificate().Certificate, 1)
	assert.NotNil(t, id.Certificate().PrivateKey)
}

func TestLoad_CertWithoutTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	certPEM, keyPEM := generateDeviceCert(t, "device")
	certPath := writeFile(t, dir, "device.crt", certPEM[:len(certPEM)-1])
	keyPath := writeFile(t, dir, "device.key", keyPEM)

	id, err := Load(certPath, keyPath)
	require.NoError(t, err)
	assert.Equal(t, "device", id.Subject())
}

func TestLoad_UnreadableCertStopsBeforeKey(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "missing.crt")
	keyPath := filepath.Join(dir, "also-missing.key")

	_, err := Load(certPath, keyPath)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, certPath, loadErr.Path, "the certificate is read first and reported first")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_UnreadableKey(t *testing.T) {
	dir := t.TempDir()
	certPEM, _ := generateDeviceCert(t, "device")
	certPath := writeFile(t, dir, "device.crt", certPEM)
	keyPath := filepath.Join(dir, "missing.key")

	_, err := Load(certPath, keyPath)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, keyPath, loadErr.Path)
}

func TestLoad_MismatchedKey(t *testing.T) {
	dir := t.TempDir()
	certPEM, _ := generateDeviceCert(t, "device-a")
	_, otherKey := generateDeviceCert(t, "device-b")
	certPath := writeFile(t, dir, "device.crt", certPEM)
	keyPath := writeFile(t, dir, "device.key", otherKey)

	_, err := Load(certPath, keyPath)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestLoad_EmptyPaths(t *testing.T) {
	_, err := Load("", "device.key")
	assert.Error(t, err)

	dir := t.TempDir()
	certPEM, _ := generateDeviceCert(t, "device")
	certPath := writeFile(t, dir, "device.crt", certPEM)
	_, err = Load(certPath, "")
	assert.Error(t, err)
}

func TestFromPEM_Garbage(t *testing.T) {
	_, err := FromPEM([]byte("not pem at all"))
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}
