package fingerprint

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// HostKeyPaths are the sshd host public keys checked, in order, when a host
// fingerprint has to be discovered locally
var HostKeyPaths = []string{
	"/etc/ssh/ssh_host_ed25519_key.pub",
	"/etc/ssh/ssh_host_ecdsa_key.pub",
	"/etc/ssh/ssh_host_rsa_key.pub",
}

var ErrNoHostKey = errors.New("no usable SSH host key found")

// ParseAuthorizedKey parses a single authorized_keys style line
func ParseAuthorizedKey(line string) (ssh.PublicKey, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, fmt.Errorf("public key is empty")
	}
	if strings.Contains(trimmed, "\n") {
		return nil, fmt.Errorf("expected a single public key line")
	}

	key, _, _, rest, err := ssh.ParseAuthorizedKey([]byte(trimmed))
	if err != nil {
		return nil, fmt.Errorf("invalid SSH public key: %w", err)
	}
	if len(strings.TrimSpace(string(rest))) > 0 {
		return nil, fmt.Errorf("expected a single public key line")
	}
	return key, nil
}

// FromAuthorizedKey returns the SHA256:... fingerprint of a public key line
func FromAuthorizedKey(line string) (string, error) {
	key, err := ParseAuthorizedKey(line)
	if err != nil {
		return "", err
	}
	return ssh.FingerprintSHA256(key), nil
}

// FromFile returns the fingerprint of the first key in a .pub file
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read public key file: %w", err)
	}

	key, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse public key in %s: %w", path, err)
	}
	return ssh.FingerprintSHA256(key), nil
}

// HostFingerprint returns the fingerprint of the first readable host key in paths
func HostFingerprint(paths []string, logger *logrus.Logger) (string, error) {
	logger.WithField("sshKeyPaths", paths).Debug("Checking SSH host key paths for fingerprinting")

	for i, keyPath := range paths {
		logger.WithFields(logrus.Fields{
			"keyPath": keyPath,
			"attempt": i + 1,
			"total":   len(paths),
		}).Debug("Checking SSH host key path")

		fingerprint, err := FromFile(keyPath)
		if err != nil {
			logger.WithError(err).WithField("keyPath", keyPath).Debug("SSH host key not usable")
			continue
		}

		logger.WithFields(logrus.Fields{
			"fingerprint": fingerprint,
			"keyPath":     keyPath,
		}).Debug("🔑 Fingerprint source: SSH host key")
		return fingerprint, nil
	}

	return "", ErrNoHostKey
}
