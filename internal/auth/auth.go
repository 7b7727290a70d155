package auth

import (
	"fmt"
	"net/http"

	"ud-control/internal/identity"
)

// Requirement is the credential an operation needs before it may be sent
type Requirement int

const (
	RequireNone Requirement = iota
	RequireBearer
	RequireClientIdentity
)

func (r Requirement) String() string {
	switch r {
	case RequireNone:
		return "none"
	case RequireBearer:
		return "bearer token"
	case RequireClientIdentity:
		return "client certificate"
	default:
		return fmt.Sprintf("requirement(%d)", int(r))
	}
}

// Kind identifies which credential a Context carries
type Kind int

const (
	KindNone Kind = iota
	KindBearer
	KindClientIdentity
)

// Context describes how a single request authenticates. The zero value is
// an unauthenticated context.
type Context struct {
	kind     Kind
	token    string
	identity *identity.Identity
}

func None() Context {
	return Context{kind: KindNone}
}

func Bearer(token string) Context {
	return Context{kind: KindBearer, token: token}
}

func ClientIdentity(id *identity.Identity) Context {
	return Context{kind: KindClientIdentity, identity: id}
}

func (c Context) Kind() Kind {
	return c.kind
}

func (c Context) Token() string {
	return c.token
}

// Identity returns the device identity for mutual TLS, or nil for other kinds
func (c Context) Identity() *identity.Identity {
	return c.identity
}

// MissingCredentialError is returned when an operation's requirement cannot
// be met locally. It is always raised before any connection is attempted.
type MissingCredentialError struct {
	Operation   string
	Requirement Requirement
	Hint        string
}

func (e *MissingCredentialError) Error() string {
	msg := fmt.Sprintf("%s requires a %s", e.Operation, e.Requirement)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// ResolveBearer turns an already-resolved admin token into a bearer context.
// The token has been looked up in flags, config and UD_ADMIN_TOKEN by the
// config layer, so an empty value means no source provided one.
func ResolveBearer(operation, token string) (Context, error) {
	if token == "" {
		return Context{}, &MissingCredentialError{
			Operation:   operation,
			Requirement: RequireBearer,
			Hint:        "pass --admin-token or set UD_ADMIN_TOKEN",
		}
	}
	return Bearer(token), nil
}

// Satisfies checks the context against a requirement
func Satisfies(operation string, req Requirement, c Context) error {
	switch req {
	case RequireNone:
		return nil
	case RequireBearer:
		if c.kind != KindBearer || c.token == "" {
			return &MissingCredentialError{Operation: operation, Requirement: req, Hint: "pass --admin-token or set UD_ADMIN_TOKEN"}
		}
	case RequireClientIdentity:
		if c.kind != KindClientIdentity || c.identity == nil {
			return &MissingCredentialError{Operation: operation, Requirement: req, Hint: "pass --device-cert and --device-key"}
		}
	default:
		return fmt.Errorf("unknown auth requirement %d", int(req))
	}
	return nil
}

// Attach applies the context to an outgoing request. Bearer tokens become an
// Authorization header; client identities are presented during the TLS
// handshake and leave the request untouched.
func Attach(req *http.Request, c Context) (*http.Request, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	switch c.kind {
	case KindNone, KindClientIdentity:
		return req, nil
	case KindBearer:
		if c.token == "" {
			return nil, &MissingCredentialError{Operation: req.URL.Path, Requirement: RequireBearer}
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		return req, nil
	default:
		return nil, fmt.Errorf("unknown auth context kind %d", int(c.kind))
	}
}
