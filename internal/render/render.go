// Package render turns decoded server responses into the text written to
// stdout. Output is line oriented and stable so it can be piped or redirected;
// PEM blocks are written as received apart from surrounding whitespace.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"ud-control/types"
)

const (
	DeviceCertHeader = "--- device certificate (PEM) ---"
	DeviceKeyHeader  = "--- device private key (PEM) ---"
	CACertHeader     = "--- ca certificate (PEM) ---"
)

type Renderer struct {
	out io.Writer
	err error
}

func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) println(s string) {
	r.printf("%s\n", s)
}

func (r *Renderer) Health(text string) error {
	r.println(text)
	return r.err
}

func (r *Renderer) Bootstrap(resp types.BootstrapResponse) error {
	r.printf("admin_token=%s\n", resp.AdminToken)
	return r.err
}

func (r *Renderer) Login(resp types.LoginResponse) error {
	r.println(resp.Result)
	return r.err
}

func (r *Renderer) User(resp types.UserResponse) error {
	r.printf("created user %s id=%s status=%s keys=%d\n", resp.Username, resp.ID, resp.Status, len(resp.SSHPublicKeys))
	return r.err
}

func (r *Renderer) Group(resp types.GroupResponse) error {
	r.printf("created group %s id=%s\n", resp.Name, resp.ID)
	return r.err
}

func (r *Renderer) MemberAdded(groupID, userID uuid.UUID) error {
	r.printf("added user %s to group %s\n", userID, groupID)
	return r.err
}

// EnrolledDevice prints the summary line followed by the certificate, the
// private key and, when the server sent one, the CA certificate.
func (r *Renderer) EnrolledDevice(resp types.EnrollDeviceResponse) error {
	r.printf("enrolled device id=%s state=%s\n", resp.DeviceID, resp.TrustState)
	r.block(DeviceCertHeader, resp.DeviceCertPEM)
	r.block(DeviceKeyHeader, resp.DeviceKeyPEM)
	if resp.CACertPEM != nil && strings.TrimSpace(*resp.CACertPEM) != "" {
		r.block(CACertHeader, *resp.CACertPEM)
	}
	return r.err
}

func (r *Renderer) block(header, pem string) {
	r.println(header)
	r.println(strings.TrimSpace(pem))
}

func (r *Renderer) Policy(resp types.PolicyResponse) error {
	r.printf("policy %s host_tag=%s effect=%s\n", resp.ID, resp.HostTag, resp.Effect)
	return r.err
}

// Audit prints one record per line in the order given
func (r *Renderer) Audit(records []types.AuditRecord) error {
	for _, rec := range records {
		actor := ""
		if rec.ActorUsername != nil {
			actor = *rec.ActorUsername
		}
		r.printf("%d %s %s %s %s\n", rec.ID, rec.CreatedAt, actor, rec.Action, rec.Result)
	}
	return r.err
}

// Commands prints one shell command per line in the order given
func (r *Renderer) Commands(commands []string) error {
	for _, cmd := range commands {
		r.println(cmd)
	}
	return r.err
}

// LocalCommands is Commands preceded by a comment banner
func (r *Renderer) LocalCommands(banner string, commands []string) error {
	if banner != "" {
		r.println(banner)
	}
	return r.Commands(commands)
}

// Raw writes text byte for byte with no trailing newline added
func (r *Renderer) Raw(text string) error {
	if r.err != nil {
		return r.err
	}
	_, r.err = io.WriteString(r.out, text)
	return r.err
}

// Fields prints aligned key/value lines, skipping empty values
func (r *Renderer) Fields(pairs [][2]string) error {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		r.printf("%-*s  %s\n", width+1, p[0]+":", p[1])
	}
	return r.err
}
