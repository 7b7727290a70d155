package kerberos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ud-control/internal/router"
)

func NewKerberosUserCommand(globals *router.Globals) *cobra.Command {
	var realm string

	cmd := &cobra.Command{
		Use:   "kerberos-user <username>",
		Short: "Print kadmin commands that create a user principal and keytab",
		Long: `Print the kadmin.local commands that create <username>@<realm> and
export its keys to /keytabs/<username>.keytab. Nothing is executed; run the
output on the KDC host.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if realm == "" {
				realm = rt.Config().Realm
			}
			return rt.RunLocal(router.KerberosUser{Username: args[0], Realm: realm})
		},
	}

	cmd.Flags().StringVar(&realm, "realm", "", "Kerberos realm (default from config, UD.INTERNAL)")

	return cmd
}

func NewKerberosHostCommand(globals *router.Globals) *cobra.Command {
	var (
		realm  string
		keytab string
	)

	cmd := &cobra.Command{
		Use:   "kerberos-host <hostname>",
		Short: "Print kadmin commands that create a host principal and keytab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if realm == "" {
				realm = rt.Config().Realm
			}
			if keytab == "" {
				keytab = rt.Config().HostKeytab
			}
			return rt.RunLocal(router.KerberosHost{Hostname: args[0], Realm: realm, Keytab: keytab})
		},
	}

	cmd.Flags().StringVar(&realm, "realm", "", "Kerberos realm (default from config, UD.INTERNAL)")
	cmd.Flags().StringVar(&keytab, "keytab", "", "Keytab path (default from config, /etc/krb5.keytab)")

	return cmd
}

func NewKerberosSyncUserCommand(globals *router.Globals) *cobra.Command {
	return newSyncCommand(globals, "kerberos-sync-user <user_id>", "Fetch the kadmin commands for a stored user", false)
}

func NewKerberosSyncDeviceCommand(globals *router.Globals) *cobra.Command {
	return newSyncCommand(globals, "kerberos-sync-device <device_id>", "Fetch the kadmin commands for a stored device", true)
}

func newSyncCommand(globals *router.Globals, use, short string, device bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, router.KerberosSync{Device: device, ID: id})
		},
	}
}
