package types

import (
	"time"

	"github.com/google/uuid"
)

// Config holds the client configuration shared by udctl and ud-ssh-authz
type Config struct {
	Server         string        `json:"server" yaml:"server"` // Domain server base URL like https://localhost:8443
	AdminToken     string        `json:"-" yaml:"adminToken"`
	Insecure       bool          `json:"insecure" yaml:"insecure"` // Skip TLS certificate validation (development only)
	DeviceCert     string        `json:"deviceCert" yaml:"deviceCert"`
	DeviceKey      string        `json:"deviceKey" yaml:"deviceKey"`
	Realm          string        `json:"realm" yaml:"realm"`
	HostKeytab     string        `json:"hostKeytab" yaml:"hostKeytab"`
	LogPath        string        `json:"logPath" yaml:"logPath"`
	LogFormat      string        `json:"logFormat" yaml:"logFormat"`
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
}

// GetLogPath returns the configured log file path
func (c *Config) GetLogPath() string {
	return c.LogPath
}

// GetLogFormat returns text or json
func (c *Config) GetLogFormat() string {
	return c.LogFormat
}

// HasAdminToken reports whether an admin token was supplied by flag, file or environment
func (c *Config) HasAdminToken() bool {
	return c.AdminToken != ""
}

// BootstrapRequest creates the first administrator on an empty domain
type BootstrapRequest struct {
	AdminUsername string  `json:"admin_username"`
	AdminPassword string  `json:"admin_password"`
	DisplayName   *string `json:"display_name"`
}

// Response types carry validate tags; a 2xx body missing a required field is
// rejected after decoding.

type BootstrapResponse struct {
	AdminToken string `json:"admin_token" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Result string `json:"result" validate:"required"`
}

type CreateUserRequest struct {
	Username      string   `json:"username"`
	DisplayName   string   `json:"display_name"`
	Password      string   `json:"password"`
	SSHPublicKeys []string `json:"ssh_public_keys"`
}

type UserResponse struct {
	ID            uuid.UUID `json:"id" validate:"required"`
	Username      string    `json:"username" validate:"required"`
	DisplayName   string    `json:"display_name"`
	Status        string    `json:"status" validate:"required"`
	SSHPublicKeys []string  `json:"ssh_public_keys" validate:"required"`
	CreatedAt     string    `json:"created_at"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type GroupResponse struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	CreatedAt string    `json:"created_at"`
}

type AddGroupMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type EnrollDeviceRequest struct {
	Name              string   `json:"name"`
	DeviceType        string   `json:"device_type"`
	Tags              []string `json:"tags"`
	HostFingerprint   *string  `json:"host_fingerprint"`
	PubkeyFingerprint *string  `json:"pubkey_fingerprint"`
}

// EnrollDeviceResponse carries the issued device identity. DeviceKeyPEM is
// secret material and must only ever reach the output stream.
type EnrollDeviceResponse struct {
	DeviceID      uuid.UUID `json:"device_id" validate:"required"`
	TrustState    string    `json:"trust_state" validate:"required"`
	DeviceCertPEM string    `json:"device_cert_pem" validate:"required"`
	DeviceKeyPEM  string    `json:"device_key_pem" validate:"required"`
	CACertPEM     *string   `json:"ca_cert_pem"`
}

type CreatePolicyRequest struct {
	GroupID     uuid.UUID `json:"group_id"`
	HostTag     string    `json:"host_tag"`
	Effect      string    `json:"effect"`
	Description *string   `json:"description"`
}

type PolicyResponse struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	GroupID     uuid.UUID `json:"group_id" validate:"required"`
	HostTag     string    `json:"host_tag" validate:"required"`
	Effect      string    `json:"effect" validate:"required,oneof=allow deny"`
	Description *string   `json:"description"`
}

// AuditRecord is one entry of the server's audit log, kept in server order
type AuditRecord struct {
	ID            int64   `json:"id" validate:"required"`
	CreatedAt     string  `json:"created_at" validate:"required"`
	ActorUsername *string `json:"actor_username"`
	Action        string  `json:"action" validate:"required"`
	Result        string  `json:"result" validate:"required"`
}

type KerberosCommandResponse struct {
	Commands []string `json:"commands" validate:"required"`
}
