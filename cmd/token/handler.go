package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ud-control/internal/jwt"
	"ud-control/internal/router"
)

func NewInspectTokenCommand(globals *router.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect-token [token]",
		Short: "Show the claims of an admin token without verifying it",
		Long: `Decode an admin token locally and print its header and registered claims.

Without an argument the configured admin token (--admin-token or
UD_ADMIN_TOKEN) is inspected. The signature is not checked; only the
server can say whether a token is valid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			raw := rt.Config().AdminToken
			if len(args) == 1 {
				raw = args[0]
			}
			if strings.TrimSpace(raw) == "" {
				return fmt.Errorf("no token given and no admin token configured")
			}

			info, err := jwt.Inspect(raw)
			if errors.Is(err, jwt.ErrNotJWT) {
				return rt.Renderer().Fields([][2]string{{"format", "opaque"}})
			}
			if err != nil {
				return err
			}

			now := time.Now()
			return rt.Renderer().Fields([][2]string{
				{"format", "jwt"},
				{"algorithm", info.Algorithm},
				{"key_id", info.KeyID},
				{"issuer", info.Issuer},
				{"subject", info.Subject},
				{"audience", strings.Join(info.Audience, ",")},
				{"id", info.ID},
				{"issued_at", formatTime(info.IssuedAt)},
				{"not_before", formatTime(info.NotBefore)},
				{"expiry", formatTime(info.Expiry)},
				{"expired", fmt.Sprintf("%t", info.Expired(now))},
			})
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
