package identity

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// Identity is a device certificate and private key bundle used for mutual TLS
type Identity struct {
	certificate tls.Certificate
}

// LoadError reports an unreadable or malformed identity file
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load device identity: %v", e.Err)
	}
	return fmt.Sprintf("load device identity from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the certificate and then the key, concatenates both PEM files
// and parses the result as one key pair. A failure on the certificate stops
// before the key file is opened.
func Load(certPath, keyPath string) (*Identity, error) {
	if certPath == "" {
		return nil, &LoadError{Err: fmt.Errorf("device certificate path is empty")}
	}
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, &LoadError{Path: certPath, Err: fmt.Errorf("read device cert: %w", err)}
	}

	if keyPath == "" {
		return nil, &LoadError{Err: fmt.Errorf("device key path is empty")}
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, &LoadError{Path: keyPath, Err: fmt.Errorf("read device key: %w", err)}
	}

	bundle := make([]byte, 0, len(certPEM)+len(keyPEM)+1)
	bundle = append(bundle, certPEM...)
	if len(certPEM) > 0 && certPEM[len(certPEM)-1] != '\n' {
		bundle = append(bundle, '\n')
	}
	bundle = append(bundle, keyPEM...)

	return FromPEM(bundle)
}

// FromPEM parses a bundle holding one or more CERTIFICATE blocks followed by
// a private key block.
func FromPEM(bundle []byte) (*Identity, error) {
	cert, err := tls.X509KeyPair(bundle, bundle)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("load identity from pem: %w", err)}
	}

	if cert.Leaf == nil && len(cert.Certificate) > 0 {
		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, &LoadError{Err: fmt.Errorf("parse device certificate: %w", err)}
		}
		cert.Leaf = leaf
	}

	return &Identity{certificate: cert}, nil
}

// Certificate returns the key pair to present during the TLS handshake
func (i *Identity) Certificate() tls.Certificate {
	return i.certificate
}

// Subject returns the leaf certificate's common name for log fields
func (i *Identity) Subject() string {
	if i.certificate.Leaf == nil {
		return ""
	}
	return i.certificate.Leaf.Subject.CommonName
}
