package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"ud-control/internal/api"
	"ud-control/internal/auth"
)

const (
	DefaultServer = "https://localhost:8443"

	// maxResponseSize caps a response body; anything larger is an error
	maxResponseSize = 8 << 20
	// maxErrorBodySize caps how much of an error body ends up in ServerError
	maxErrorBodySize = 4 << 10
)

var validate = validator.New()

type Options struct {
	UserAgent string
	Insecure  bool
	Timeout   time.Duration // zero means no client-side timeout

	// Transport is the base round tripper. When it is an *http.Transport it
	// is cloned and given the TLS settings for each call.
	Transport http.RoundTripper
}

// Client sends exactly one operation per Do call to the domain server
type Client struct {
	baseURL *url.URL
	opts    Options
	logger  *logrus.Logger
}

func New(server string, opts Options, logger *logrus.Logger) (*Client, error) {
	if server == "" {
		server = DefaultServer
	}

	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL must use http:// or https:// scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server URL must include a host")
	}

	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Client{
		baseURL: u,
		opts:    opts,
		logger:  logger,
	}, nil
}

// Do executes call with the given credentials. For ResponseJSON operations
// out must be a pointer to the response shape; for ResponseText it must be
// a *string; for ResponseNone it is ignored.
func (c *Client) Do(ctx context.Context, call api.Call, ac auth.Context, out interface{}) error {
	op := call.Op

	req, err := BuildRequest(ctx, c.baseURL, call, ac)
	if err != nil {
		return err
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	httpClient, err := c.httpClientFor(ac)
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"operation": op.Name,
		"method":    req.Method,
		"url":       req.URL.Redacted(),
		"auth":      op.Auth.String(),
	}
	if ac.Kind() == auth.KindBearer {
		fields["headers"] = map[string]string{"Authorization": "Bearer <redacted>"}
	}
	if id := ac.Identity(); id != nil {
		fields["device_subject"] = id.Subject()
	}
	c.logger.WithFields(fields).Debug("Sending request to domain server")

	started := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op.Name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return &TransportError{Op: op.Name, Err: fmt.Errorf("read response body: %w", err)}
	}
	if len(body) > maxResponseSize {
		return &TransportError{Op: op.Name, Err: ErrResponseTooLarge}
	}

	c.logger.WithFields(logrus.Fields{
		"operation":   op.Name,
		"status_code": resp.StatusCode,
		"body_bytes":  len(body),
		"duration":    time.Since(started),
	}).Debug("Domain server responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := body
		if len(errBody) > maxErrorBodySize {
			errBody = errBody[:maxErrorBodySize]
		}
		return &ServerError{Op: op.Name, StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	switch op.Response {
	case api.ResponseNone:
		return nil
	case api.ResponseText:
		text, ok := out.(*string)
		if !ok {
			return fmt.Errorf("%s: text response needs a *string destination, got %T", op.Name, out)
		}
		*text = string(body)
		return nil
	default:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &DecodeError{Op: op.Name, Err: err}
		}
		if err := validateResponse(out); err != nil {
			return &DecodeError{Op: op.Name, Err: err}
		}
		return nil
	}
}

// validateResponse checks the validate tags of a decoded struct, or of every
// element of a decoded list
func validateResponse(out interface{}) error {
	v := reflect.Indirect(reflect.ValueOf(out))
	switch v.Kind() {
	case reflect.Struct:
		return validate.Struct(v.Interface())
	case reflect.Slice:
		if v.IsNil() {
			return fmt.Errorf("expected a list, got null")
		}
		for i := 0; i < v.Len(); i++ {
			item := reflect.Indirect(v.Index(i))
			if item.Kind() != reflect.Struct {
				continue
			}
			if err := validate.Struct(item.Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

func (c *Client) httpClientFor(ac auth.Context) (*http.Client, error) {
	base := c.opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	needsTLS := c.opts.Insecure || ac.Kind() == auth.KindClientIdentity
	transport := base
	if needsTLS {
		t, ok := base.(*http.Transport)
		if !ok {
			if ac.Kind() == auth.KindClientIdentity {
				return nil, fmt.Errorf("client certificate requires an *http.Transport, got %T", base)
			}
			return &http.Client{Transport: base, Timeout: c.opts.Timeout}, nil
		}

		t = t.Clone()
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
		if t.TLSClientConfig != nil {
			tlsConfig = t.TLSClientConfig.Clone()
		}
		if c.opts.Insecure {
			c.logger.Warn("⚠️ TLS certificate verification disabled (--insecure)")
			tlsConfig.InsecureSkipVerify = true
		}
		if id := ac.Identity(); id != nil {
			tlsConfig.Certificates = []tls.Certificate{id.Certificate()}
		}
		t.TLSClientConfig = tlsConfig
		transport = t
	}

	return &http.Client{Transport: transport, Timeout: c.opts.Timeout}, nil
}
