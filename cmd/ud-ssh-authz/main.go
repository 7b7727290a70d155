// ud-ssh-authz is run by sshd as an AuthorizedKeysCommand. It asks the domain
// server, over mutual TLS with the device identity, which keys may log in as
// the given user on this host and prints them in authorized_keys format.
//
//	AuthorizedKeysCommand /usr/local/bin/ud-ssh-authz --user %u
//	AuthorizedKeysCommandUser nobody
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ud-control/cmd/version"
	"ud-control/internal/fingerprint"
	"ud-control/internal/router"
)

var (
	globals         = &router.Globals{UserAgent: "ud-ssh-authz/" + version.GetVersion()}
	username        string
	hostFingerprint string
	deviceCert      string
	deviceKey       string
)

var rootCmd = &cobra.Command{
	Use:   "ud-ssh-authz",
	Short: "Print the SSH keys authorized for a user on this host",
	Long: `Fetch authorized_keys content for a user from the UnifiedDomain server.

The request is authenticated with the device certificate and key issued at
enrollment. When --host-fingerprint is omitted the fingerprint of the local
sshd host key is used. The server response is written to stdout unchanged;
diagnostics go to stderr.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runAuthz,
}

func init() {
	rootCmd.Flags().StringVarP(&username, "user", "u", "", "User to authorize (sshd %u)")
	rootCmd.Flags().StringVarP(&hostFingerprint, "host-fingerprint", "f", "", "SSH host key fingerprint (default: read from /etc/ssh)")
	rootCmd.Flags().StringVar(&deviceCert, "device-cert", "", "Device certificate PEM file (or UD_DEVICE_CERT)")
	rootCmd.Flags().StringVar(&deviceKey, "device-key", "", "Device private key PEM file (or UD_DEVICE_KEY)")
	rootCmd.Flags().StringVar(&globals.Server, "server", "", "Domain server base URL (default https://localhost:8443)")
	rootCmd.Flags().BoolVar(&globals.Insecure, "insecure", false, "Allow invalid TLS certificates (dev only)")
	rootCmd.Flags().StringVarP(&globals.ConfigPath, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVarP(&globals.Verbose, "verbose", "v", false, "Enable verbose logging")
	_ = rootCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(version.NewVersionCommand("ud-ssh-authz"))
}

func runAuthz(cmd *cobra.Command, args []string) error {
	rt, err := router.FromGlobals(globals, map[string]interface{}{
		"deviceCert": deviceCert,
		"deviceKey":  deviceKey,
	}, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger := rt.Logger()

	fp := hostFingerprint
	if fp == "" {
		fp, err = fingerprint.HostFingerprint(fingerprint.HostKeyPaths, logger)
		if err != nil {
			logger.WithError(err).Error("Cannot determine host fingerprint, pass --host-fingerprint")
			return err
		}
	}

	var body string
	call, err := router.FetchAuthorizedKeys{Username: username, HostFingerprint: fp}.Call()
	if err != nil {
		return err
	}
	if err := rt.Execute(cmd.Context(), call, &body); err != nil {
		logger.WithError(err).WithField("user", username).Error("Failed to fetch authorized keys")
		return err
	}

	logger.WithFields(logrus.Fields{
		"user":     username,
		"keys_len": len(body),
	}).Info("authorized_keys fetched")

	return rt.Renderer().Raw(body)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
