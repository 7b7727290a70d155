package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"ud-control/internal/api"
	"ud-control/internal/auth"
)

// BuildRequest creates the HTTP request for a call and applies its
// authentication. It performs no I/O; a missing credential is reported here,
// before the caller gets anything it could send.
func BuildRequest(ctx context.Context, base *url.URL, call api.Call, ac auth.Context) (*http.Request, error) {
	if err := auth.Satisfies(call.Op.Name, call.Op.Auth, ac); err != nil {
		return nil, err
	}

	target, err := call.URL(base)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request body: %w", call.Op.Name, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.Op.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", call.Op.Name, err)
	}
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.Op.Response == api.ResponseJSON {
		req.Header.Set("Accept", "application/json")
	}

	return auth.Attach(req, ac)
}
