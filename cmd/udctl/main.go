package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ud-control/cmd/audit"
	"ud-control/cmd/bootstrap"
	"ud-control/cmd/devices"
	"ud-control/cmd/fingerprint"
	"ud-control/cmd/groups"
	"ud-control/cmd/health"
	"ud-control/cmd/kerberos"
	"ud-control/cmd/login"
	"ud-control/cmd/policies"
	"ud-control/cmd/status"
	"ud-control/cmd/token"
	"ud-control/cmd/users"
	"ud-control/cmd/version"
	"ud-control/internal/router"
)

var globals = &router.Globals{UserAgent: "udctl/" + version.GetVersion()}

var rootCmd = &cobra.Command{
	Use:   "udctl",
	Short: "UnifiedDomain control CLI",
	Long: `udctl talks to the UnifiedDomain server to bootstrap the domain, manage
users, groups, devices and access policies, read the audit log and produce
Kerberos provisioning commands.

Administrative commands authenticate with a bearer token taken from
--admin-token or the UD_ADMIN_TOKEN environment variable.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&globals.Server, "server", "", "Domain server base URL (default https://localhost:8443)")
	rootCmd.PersistentFlags().StringVar(&globals.AdminToken, "admin-token", "", "Admin bearer token (falls back to UD_ADMIN_TOKEN env)")
	rootCmd.PersistentFlags().BoolVar(&globals.Insecure, "insecure", false, "Allow invalid TLS certificates (dev only)")
	rootCmd.PersistentFlags().StringVar(&globals.LogFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(health.NewHealthCommand(globals))
	rootCmd.AddCommand(login.NewLoginCommand(globals))
	rootCmd.AddCommand(bootstrap.NewBootstrapCommand(globals))
	rootCmd.AddCommand(users.NewCreateUserCommand(globals))
	rootCmd.AddCommand(groups.NewCreateGroupCommand(globals))
	rootCmd.AddCommand(groups.NewAddMemberCommand(globals))
	rootCmd.AddCommand(devices.NewEnrollDeviceCommand(globals))
	rootCmd.AddCommand(policies.NewCreatePolicyCommand(globals))
	rootCmd.AddCommand(audit.NewListAuditCommand(globals))
	rootCmd.AddCommand(kerberos.NewKerberosUserCommand(globals))
	rootCmd.AddCommand(kerberos.NewKerberosHostCommand(globals))
	rootCmd.AddCommand(kerberos.NewKerberosSyncUserCommand(globals))
	rootCmd.AddCommand(kerberos.NewKerberosSyncDeviceCommand(globals))
	rootCmd.AddCommand(token.NewInspectTokenCommand(globals))
	rootCmd.AddCommand(status.NewStatusCommand(globals))
	rootCmd.AddCommand(fingerprint.NewFingerprintCommand())
	rootCmd.AddCommand(version.NewVersionCommand("udctl"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
