package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ud-control/internal/fingerprint"
	"ud-control/internal/identity"
	"ud-control/internal/jwt"
	"ud-control/internal/router"
)

func NewStatusCommand(globals *router.Globals) *cobra.Command {
	var skipServer bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check local credentials and server reachability",
		Long: `Validate the local udctl setup including:
- Configuration loading and validation
- Admin token presence and expiry (when it is a JWT)
- Device certificate and key, when configured
- SSH host key fingerprint discovery
- Domain server health endpoint

Nothing is changed on the server; only the health endpoint is contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runStatusCheck(cmd.Context(), rt, cmd.OutOrStdout(), !skipServer)
		},
	}

	cmd.Flags().BoolVar(&skipServer, "offline", false, "Skip the server health check")

	return cmd
}

func runStatusCheck(ctx context.Context, rt *router.Router, out io.Writer, checkServer bool) error {
	cfg := rt.Config()
	logger := rt.Logger()

	logger.WithField("server", cfg.Server).Debug("🔍 udctl status check")

	fmt.Fprintln(out, "🔍 udctl status check")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	allChecksPass := true

	fmt.Fprintf(out, "📝 Configuration... ✅ VALID (server %s)\n", cfg.Server)

	fmt.Fprint(out, "🔐 Admin token... ")
	if msg, ok := checkAdminToken(cfg.AdminToken, logger); ok {
		fmt.Fprintf(out, "✅ %s\n", msg)
	} else {
		fmt.Fprintf(out, "⚠️  %s\n", msg)
	}

	fmt.Fprint(out, "🪪 Device identity... ")
	if msg, ok := checkDeviceIdentity(cfg.DeviceCert, cfg.DeviceKey, logger); ok {
		fmt.Fprintf(out, "✅ %s\n", msg)
	} else {
		fmt.Fprintf(out, "❌ %s\n", msg)
		allChecksPass = false
	}

	fmt.Fprint(out, "🔑 SSH host key... ")
	if fp, err := fingerprint.HostFingerprint(fingerprint.HostKeyPaths, logger); err == nil {
		fmt.Fprintf(out, "✅ %s\n", fp)
	} else {
		fmt.Fprintln(out, "➖ NOT FOUND (pass --host-fingerprint to ud-ssh-authz)")
	}

	if checkServer {
		fmt.Fprint(out, "🌐 Domain server... ")
		var text string
		call, err := router.Health{}.Call()
		if err != nil {
			return err
		}
		if err := rt.Execute(ctx, call, &text); err != nil {
			fmt.Fprintf(out, "❌ UNREACHABLE (%v)\n", err)
			allChecksPass = false
		} else {
			fmt.Fprintf(out, "✅ %s\n", strings.TrimSpace(text))
		}
	}

	fmt.Fprintln(out, strings.Repeat("=", 40))

	if !allChecksPass {
		fmt.Fprintln(out, "⚠️  Some checks failed. Please review the issues above.")
		return fmt.Errorf("status check failed")
	}
	fmt.Fprintln(out, "🎉 All checks passed!")
	return nil
}

// checkAdminToken never fails the status run: many commands need no token
func checkAdminToken(token string, logger *logrus.Logger) (string, bool) {
	if token == "" {
		return "NOT SET (admin commands need --admin-token or UD_ADMIN_TOKEN)", false
	}

	info, err := jwt.Inspect(token)
	if errors.Is(err, jwt.ErrNotJWT) {
		return "PRESENT (opaque)", true
	}
	if err != nil {
		logger.WithError(err).Debug("Admin token looks like a JWT but could not be decoded")
		return "PRESENT (undecodable JWT)", true
	}
	if info.Expired(time.Now()) {
		return fmt.Sprintf("EXPIRED at %s", info.Expiry.Format(time.RFC3339)), false
	}
	if info.Expiry.IsZero() {
		return fmt.Sprintf("PRESENT (subject %s, no expiry)", info.Subject), true
	}
	return fmt.Sprintf("PRESENT (subject %s, expires %s)", info.Subject, info.Expiry.Format(time.RFC3339)), true
}

func checkDeviceIdentity(certPath, keyPath string, logger *logrus.Logger) (string, bool) {
	if certPath == "" && keyPath == "" {
		return "NOT CONFIGURED", true
	}

	id, err := identity.Load(certPath, keyPath)
	if err != nil {
		logger.WithError(err).Debug("Device identity failed to load")
		return err.Error(), false
	}

	leaf := id.Certificate().Leaf
	if leaf != nil && time.Now().After(leaf.NotAfter) {
		return fmt.Sprintf("EXPIRED at %s (subject %s)", leaf.NotAfter.Format(time.RFC3339), id.Subject()), false
	}
	return fmt.Sprintf("LOADED (subject %s)", id.Subject()), true
}
