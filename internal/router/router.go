package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"ud-control/internal/api"
	"ud-control/internal/auth"
	"ud-control/internal/client"
	"ud-control/internal/config"
	"ud-control/internal/identity"
	"ud-control/internal/jwt"
	"ud-control/internal/logging"
	"ud-control/internal/render"
	"ud-control/types"
)

// Globals are the persistent flags shared by every subcommand
type Globals struct {
	Verbose    bool
	ConfigPath string
	Server     string
	AdminToken string
	Insecure   bool
	LogFormat  string
	UserAgent  string
}

// Command is one operator action sent to the domain server. Call describes
// the request; Render prints the decoded response of type R.
type Command[R any] interface {
	Call() (api.Call, error)
	Render(r *render.Renderer, resp R) error
}

// LocalCommand is an operator action answered without contacting the server
type LocalCommand interface {
	Render(r *render.Renderer) error
}

// Router sequences credential resolution, the request and rendering for one invocation
type Router struct {
	cfg      *types.Config
	logger   *logrus.Logger
	out      io.Writer
	renderer *render.Renderer
	client   *client.Client
	now      func() time.Time
}

type Option func(*routerOptions)

type routerOptions struct {
	transport http.RoundTripper
	userAgent string
}

// WithTransport replaces the base HTTP transport
func WithTransport(t http.RoundTripper) Option {
	return func(o *routerOptions) { o.transport = t }
}

func WithUserAgent(ua string) Option {
	return func(o *routerOptions) { o.userAgent = ua }
}

func New(cfg *types.Config, logger *logrus.Logger, out io.Writer, opts ...Option) (*Router, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if out == nil {
		out = os.Stdout
	}

	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	c, err := client.New(cfg.Server, client.Options{
		UserAgent: o.userAgent,
		Insecure:  cfg.Insecure,
		Timeout:   cfg.RequestTimeout,
		Transport: o.transport,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Router{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		renderer: render.New(out),
		client:   c,
		now:      time.Now,
	}, nil
}

// FromGlobals loads configuration with the global flags applied on top and
// builds a router writing to out.
func FromGlobals(g *Globals, flagOverrides map[string]interface{}, out io.Writer) (*Router, error) {
	overrides := map[string]interface{}{
		"server":     g.Server,
		"adminToken": g.AdminToken,
		"insecure":   g.Insecure,
		"logFormat":  g.LogFormat,
	}
	for k, v := range flagOverrides {
		overrides[k] = v
	}

	cfg, err := config.LoadWithOverrides(g.ConfigPath, overrides)
	if err != nil {
		logger := logging.SetupLogger(g.Verbose, "text", "")
		logger.WithError(err).Error("Failed to load configuration")
		return nil, err
	}

	logger := logging.SetupLoggerFromConfig(g.Verbose, cfg)
	logger.WithFields(logrus.Fields{
		"server":         cfg.Server,
		"insecure":       cfg.Insecure,
		"has_token":      cfg.HasAdminToken(),
		"logFormat":      cfg.LogFormat,
		"requestTimeout": cfg.RequestTimeout,
	}).Debug("Configuration loaded")

	ua := g.UserAgent
	if ua == "" {
		ua = "udctl"
	}
	return New(cfg, logger, out, WithUserAgent(ua))
}

func (r *Router) Config() *types.Config {
	return r.cfg
}

func (r *Router) Logger() *logrus.Logger {
	return r.logger
}

func (r *Router) Renderer() *render.Renderer {
	return r.renderer
}

// Run executes a server command: credentials, request, then rendering
func Run[R any](ctx context.Context, r *Router, cmd Command[R]) error {
	call, err := cmd.Call()
	if err != nil {
		return err
	}

	var resp R
	if err := r.Execute(ctx, call, &resp); err != nil {
		return err
	}

	return cmd.Render(r.renderer, resp)
}

// RunLocal renders a command that needs no server round trip
func (r *Router) RunLocal(cmd LocalCommand) error {
	return cmd.Render(r.renderer)
}

// Execute resolves credentials for the call's operation and sends it
func (r *Router) Execute(ctx context.Context, call api.Call, out interface{}) error {
	ac, err := r.authFor(call.Op)
	if err != nil {
		r.logFailure(call.Op, err)
		return err
	}

	if err := r.client.Do(ctx, call, ac, out); err != nil {
		r.logFailure(call.Op, err)
		return err
	}
	return nil
}

func (r *Router) authFor(op api.Operation) (auth.Context, error) {
	switch op.Auth {
	case auth.RequireNone:
		return auth.None(), nil
	case auth.RequireBearer:
		ac, err := auth.ResolveBearer(op.Name, r.cfg.AdminToken)
		if err != nil {
			return auth.Context{}, err
		}
		r.checkTokenExpiry(op, ac.Token())
		return ac, nil
	case auth.RequireClientIdentity:
		if r.cfg.DeviceCert == "" || r.cfg.DeviceKey == "" {
			return auth.Context{}, &auth.MissingCredentialError{
				Operation:   op.Name,
				Requirement: auth.RequireClientIdentity,
				Hint:        "pass --device-cert and --device-key",
			}
		}
		id, err := identity.Load(r.cfg.DeviceCert, r.cfg.DeviceKey)
		if err != nil {
			return auth.Context{}, err
		}
		r.logger.WithField("subject", id.Subject()).Debug("Loaded device identity")
		return auth.ClientIdentity(id), nil
	default:
		return auth.Context{}, fmt.Errorf("%s: unknown auth requirement %s", op.Name, op.Auth)
	}
}

// checkTokenExpiry only warns: the server decides whether a token is still valid
func (r *Router) checkTokenExpiry(op api.Operation, token string) {
	info, err := jwt.Inspect(token)
	if err != nil {
		return
	}
	if info.Expired(r.now()) {
		r.logger.WithFields(logrus.Fields{
			"operation": op.Name,
			"subject":   info.Subject,
			"expiry":    info.Expiry.Format(time.RFC3339),
		}).Warn("⚠️ Admin token appears to be expired; the server will likely reject it")
	}
}

func (r *Router) logFailure(op api.Operation, err error) {
	entry := r.logger.WithField("operation", op.Name)

	var (
		missing   *auth.MissingCredentialError
		loadErr   *identity.LoadError
		serverErr *client.ServerError
		transport *client.TransportError
		decodeErr *client.DecodeError
	)
	switch {
	case errors.As(err, &missing):
		entry.WithField("requirement", missing.Requirement.String()).Debug("Missing credential, request not sent")
	case errors.As(err, &loadErr):
		entry.WithField("path", loadErr.Path).Debug("Device identity could not be loaded")
	case errors.As(err, &serverErr):
		entry.WithField("status_code", serverErr.StatusCode).Debug("Domain server rejected request")
	case errors.As(err, &transport):
		entry.Debug("Could not reach domain server")
	case errors.As(err, &decodeErr):
		entry.Debug("Unexpected response shape")
	}
}
