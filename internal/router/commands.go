package router

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"ud-control/internal/api"
	"ud-control/internal/kerberos"
	"ud-control/internal/render"
	"ud-control/types"
)

// Compile-time checks that each command matches its response shape
var (
	_ Command[string]                        = Health{}
	_ Command[types.BootstrapResponse]       = Bootstrap{}
	_ Command[types.LoginResponse]           = Login{}
	_ Command[types.UserResponse]            = CreateUser{}
	_ Command[types.GroupResponse]           = CreateGroup{}
	_ Command[struct{}]                      = AddMember{}
	_ Command[types.EnrollDeviceResponse]    = EnrollDevice{}
	_ Command[types.PolicyResponse]          = CreatePolicy{}
	_ Command[[]types.AuditRecord]           = ListAudit{}
	_ Command[types.KerberosCommandResponse] = KerberosSync{}
	_ Command[string]                        = FetchAuthorizedKeys{}
	_ LocalCommand                           = KerberosUser{}
	_ LocalCommand                           = KerberosHost{}
)

type Health struct{}

func (Health) Call() (api.Call, error) {
	return api.Call{Op: api.Health}, nil
}

func (Health) Render(r *render.Renderer, text string) error {
	return r.Health(text)
}

type Bootstrap struct {
	AdminUsername string
	AdminPassword string
	DisplayName   *string
}

func (c Bootstrap) Call() (api.Call, error) {
	return api.Call{Op: api.Bootstrap, Body: types.BootstrapRequest{
		AdminUsername: c.AdminUsername,
		AdminPassword: c.AdminPassword,
		DisplayName:   c.DisplayName,
	}}, nil
}

func (Bootstrap) Render(r *render.Renderer, resp types.BootstrapResponse) error {
	return r.Bootstrap(resp)
}

type Login struct {
	Username string
	Password string
}

func (c Login) Call() (api.Call, error) {
	return api.Call{Op: api.Login, Body: types.LoginRequest{Username: c.Username, Password: c.Password}}, nil
}

func (Login) Render(r *render.Renderer, resp types.LoginResponse) error {
	return r.Login(resp)
}

type CreateUser struct {
	Username    string
	DisplayName string
	Password    string
	SSHKey      *string
}

func (c CreateUser) Call() (api.Call, error) {
	var keys []string
	if c.SSHKey != nil {
		keys = []string{*c.SSHKey}
	}
	return api.Call{Op: api.CreateUser, Body: types.CreateUserRequest{
		Username:      c.Username,
		DisplayName:   c.DisplayName,
		Password:      c.Password,
		SSHPublicKeys: keys,
	}}, nil
}

func (CreateUser) Render(r *render.Renderer, resp types.UserResponse) error {
	return r.User(resp)
}

type CreateGroup struct {
	Name string
}

func (c CreateGroup) Call() (api.Call, error) {
	return api.Call{Op: api.CreateGroup, Body: types.CreateGroupRequest{Name: c.Name}}, nil
}

func (CreateGroup) Render(r *render.Renderer, resp types.GroupResponse) error {
	return r.Group(resp)
}

// AddMember succeeds on status alone; the response body is never parsed
type AddMember struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

func (c AddMember) Call() (api.Call, error) {
	return api.Call{
		Op:         api.AddMember,
		PathParams: map[string]string{"group_id": c.GroupID.String()},
		Body:       types.AddGroupMemberRequest{UserID: c.UserID},
	}, nil
}

func (c AddMember) Render(r *render.Renderer, _ struct{}) error {
	return r.MemberAdded(c.GroupID, c.UserID)
}

type EnrollDevice struct {
	Name              string
	DeviceType        string
	Tags              []string
	HostFingerprint   *string
	PubkeyFingerprint *string
}

func (c EnrollDevice) Call() (api.Call, error) {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return api.Call{Op: api.EnrollDevice, Body: types.EnrollDeviceRequest{
		Name:              c.Name,
		DeviceType:        c.DeviceType,
		Tags:              tags,
		HostFingerprint:   c.HostFingerprint,
		PubkeyFingerprint: c.PubkeyFingerprint,
	}}, nil
}

func (EnrollDevice) Render(r *render.Renderer, resp types.EnrollDeviceResponse) error {
	return r.EnrolledDevice(resp)
}

type CreatePolicy struct {
	GroupID     uuid.UUID
	HostTag     string
	Effect      string
	Description *string
}

func (c CreatePolicy) Call() (api.Call, error) {
	if c.Effect != "allow" && c.Effect != "deny" {
		return api.Call{}, fmt.Errorf("effect must be allow or deny, got %q", c.Effect)
	}
	return api.Call{Op: api.CreatePolicy, Body: types.CreatePolicyRequest{
		GroupID:     c.GroupID,
		HostTag:     c.HostTag,
		Effect:      c.Effect,
		Description: c.Description,
	}}, nil
}

func (CreatePolicy) Render(r *render.Renderer, resp types.PolicyResponse) error {
	return r.Policy(resp)
}

type ListAudit struct {
	Limit int64
}

func (c ListAudit) Call() (api.Call, error) {
	if c.Limit <= 0 {
		return api.Call{}, fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	return api.Call{
		Op:    api.ListAudit,
		Query: url.Values{"limit": []string{strconv.FormatInt(c.Limit, 10)}},
	}, nil
}

func (ListAudit) Render(r *render.Renderer, records []types.AuditRecord) error {
	return r.Audit(records)
}

// KerberosSync asks the server for the kadmin commands of a stored user or device
type KerberosSync struct {
	Device bool
	ID     uuid.UUID
}

func (c KerberosSync) Call() (api.Call, error) {
	if c.Device {
		return api.Call{Op: api.KerberosSyncDevice, PathParams: map[string]string{"device_id": c.ID.String()}}, nil
	}
	return api.Call{Op: api.KerberosSyncUser, PathParams: map[string]string{"user_id": c.ID.String()}}, nil
}

func (KerberosSync) Render(r *render.Renderer, resp types.KerberosCommandResponse) error {
	return r.Commands(resp.Commands)
}

// FetchAuthorizedKeys is the device-side lookup used by sshd
type FetchAuthorizedKeys struct {
	Username        string
	HostFingerprint string
}

func (c FetchAuthorizedKeys) Call() (api.Call, error) {
	if c.Username == "" {
		return api.Call{}, fmt.Errorf("username is required")
	}
	if c.HostFingerprint == "" {
		return api.Call{}, fmt.Errorf("host fingerprint is required")
	}
	return api.Call{
		Op: api.FetchAuthorizedKeys,
		Query: url.Values{
			"username":         []string{c.Username},
			"host_fingerprint": []string{c.HostFingerprint},
		},
	}, nil
}

func (FetchAuthorizedKeys) Render(r *render.Renderer, body string) error {
	return r.Raw(body)
}

type KerberosUser struct {
	Username string
	Realm    string
}

func (c KerberosUser) Render(r *render.Renderer) error {
	if err := kerberos.ValidateComponent("username", c.Username); err != nil {
		return err
	}
	if err := kerberos.ValidateComponent("realm", c.Realm); err != nil {
		return err
	}
	return r.LocalCommands(kerberos.Banner, kerberos.RenderUserCommands(c.Username, c.Realm))
}

type KerberosHost struct {
	Hostname string
	Realm    string
	Keytab   string
}

func (c KerberosHost) Render(r *render.Renderer) error {
	if err := kerberos.ValidateComponent("hostname", c.Hostname); err != nil {
		return err
	}
	if err := kerberos.ValidateComponent("realm", c.Realm); err != nil {
		return err
	}
	if err := kerberos.ValidateKeytabPath(c.Keytab); err != nil {
		return err
	}
	return r.LocalCommands(kerberos.Banner, kerberos.RenderHostCommands(c.Hostname, c.Realm, c.Keytab))
}
