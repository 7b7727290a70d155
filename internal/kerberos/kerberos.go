// Package kerberos renders kadmin commands for principals managed by the
// domain. Nothing here touches the network or the filesystem; the output is
// meant to be pasted into a shell on the KDC host.
package kerberos

import (
	"fmt"
	"strings"
)

const (
	DefaultRealm      = "UD.INTERNAL"
	DefaultHostKeytab = "/etc/krb5.keytab"
	UserKeytabDir     = "/keytabs"

	// Banner precedes locally rendered commands
	Banner = "# Run inside KDC host"
)

// PrincipalSpec names a principal and the keytab its key is exported to
type PrincipalSpec struct {
	Name       string
	Realm      string
	KeytabPath string
}

// UserPrincipal describes user@REALM with its keytab under /keytabs
func UserPrincipal(username, realm string) PrincipalSpec {
	return PrincipalSpec{
		Name:       username,
		Realm:      realm,
		KeytabPath: fmt.Sprintf("%s/%s.keytab", UserKeytabDir, username),
	}
}

// HostPrincipal describes host/hostname@REALM with a caller-chosen keytab
func HostPrincipal(hostname, realm, keytabPath string) PrincipalSpec {
	return PrincipalSpec{
		Name:       "host/" + hostname,
		Realm:      realm,
		KeytabPath: keytabPath,
	}
}

func (p PrincipalSpec) Principal() string {
	return p.Name + "@" + p.Realm
}

// Commands returns the principal creation and keytab export commands, in that order
func (p PrincipalSpec) Commands() []string {
	principal := p.Principal()
	return []string{
		fmt.Sprintf("kadmin.local -q \"addprinc -randkey %s\"", principal),
		fmt.Sprintf("kadmin.local -q \"ktadd -k %s %s\"", p.KeytabPath, principal),
	}
}

func RenderUserCommands(username, realm string) []string {
	return UserPrincipal(username, realm).Commands()
}

func RenderHostCommands(hostname, realm, keytabPath string) []string {
	return HostPrincipal(hostname, realm, keytabPath).Commands()
}

// ValidateComponent rejects values that would break out of the quoted
// kadmin query or split it into several arguments.
func ValidateComponent(kind, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if i := strings.IndexAny(value, " \t\r\n\"'`$\\;&|<>@"); i >= 0 {
		return fmt.Errorf("%s %q contains forbidden character %q", kind, value, value[i])
	}
	return nil
}

// ValidateKeytabPath is ValidateComponent for paths, which may not contain
// whitespace or shell metacharacters either.
func ValidateKeytabPath(path string) error {
	if path == "" {
		return fmt.Errorf("keytab path cannot be empty")
	}
	if i := strings.IndexAny(path, " \t\r\n\"'`$\\;&|<>"); i >= 0 {
		return fmt.Errorf("keytab path %q contains forbidden character %q", path, path[i])
	}
	return nil
}
