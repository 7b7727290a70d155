package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ud-control/internal/auth"
)

// ResponseKind tells the client how to treat a successful response body
type ResponseKind int

const (
	ResponseJSON ResponseKind = iota
	ResponseText
	ResponseNone // success is signalled by status alone
)

// Operation is the static description of one control-plane action
type Operation struct {
	Name     string
	Method   string
	Path     string // may contain {param} placeholders
	Auth     auth.Requirement
	Response ResponseKind
}

var (
	Health = Operation{Name: "health", Method: http.MethodGet, Path: "/health", Auth: auth.RequireNone, Response: ResponseText}

	Bootstrap = Operation{Name: "bootstrap", Method: http.MethodPost, Path: "/v1/bootstrap", Auth: auth.RequireNone}
	Login     = Operation{Name: "login", Method: http.MethodPost, Path: "/v1/login", Auth: auth.RequireNone}

	CreateUser  = Operation{Name: "create-user", Method: http.MethodPost, Path: "/v1/users", Auth: auth.RequireBearer}
	CreateGroup = Operation{Name: "create-group", Method: http.MethodPost, Path: "/v1/groups", Auth: auth.RequireBearer}
	AddMember   = Operation{Name: "add-member", Method: http.MethodPost, Path: "/v1/groups/{group_id}/members", Auth: auth.RequireBearer, Response: ResponseNone}

	EnrollDevice = Operation{Name: "enroll-device", Method: http.MethodPost, Path: "/v1/devices/enroll", Auth: auth.RequireBearer}
	CreatePolicy = Operation{Name: "create-policy", Method: http.MethodPost, Path: "/v1/policies", Auth: auth.RequireBearer}
	ListAudit    = Operation{Name: "list-audit", Method: http.MethodGet, Path: "/v1/audit", Auth: auth.RequireBearer}

	KerberosSyncUser   = Operation{Name: "kerberos-sync-user", Method: http.MethodPost, Path: "/v1/kerberos/users/{user_id}/commands", Auth: auth.RequireBearer}
	KerberosSyncDevice = Operation{Name: "kerberos-sync-device", Method: http.MethodPost, Path: "/v1/kerberos/devices/{device_id}/commands", Auth: auth.RequireBearer}

	FetchAuthorizedKeys = Operation{Name: "fetch-authorized-keys", Method: http.MethodGet, Path: "/v1/ssh/authorized_keys", Auth: auth.RequireClientIdentity, Response: ResponseText}
)

// Call is one invocation of an operation with its parameters bound
type Call struct {
	Op         Operation
	PathParams map[string]string
	Query      url.Values
	Body       interface{}
}

// ResolvePath substitutes every {param} placeholder. Values are path-escaped;
// a placeholder without a value is an error.
func (o Operation) ResolvePath(params map[string]string) (string, error) {
	var b strings.Builder
	rest := o.Path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("%s: unterminated placeholder in path %q", o.Name, o.Path)
		}
		end += open

		name := rest[open+1 : end]
		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%s: missing path parameter %q", o.Name, name)
		}

		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(value))
		rest = rest[end+1:]
	}
	return b.String(), nil
}

// URL joins the resolved path and query onto the server base URL
func (c Call) URL(base *url.URL) (*url.URL, error) {
	path, err := c.Op.ResolvePath(c.PathParams)
	if err != nil {
		return nil, err
	}

	escaped := strings.TrimRight(base.EscapedPath(), "/") + path
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid path %q: %w", c.Op.Name, escaped, err)
	}

	u := *base
	u.Path = unescaped
	u.RawPath = escaped
	if len(c.Query) > 0 {
		u.RawQuery = c.Query.Encode()
	} else {
		u.RawQuery = ""
	}
	return &u, nil
}
