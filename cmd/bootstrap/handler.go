package bootstrap

import (
	"github.com/spf13/cobra"

	"ud-control/internal/router"
)

func NewBootstrapCommand(globals *router.Globals) *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "bootstrap <admin_username> <admin_password>",
		Short: "Create the first administrator and print its admin token",
		Long: `Bootstrap an empty domain by creating the first administrator account.

The server answers with an admin token, printed as admin_token=<token>.
Store it safely and export it as UD_ADMIN_TOKEN for administrative commands.
The server refuses bootstrap once the domain has been initialized.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			req := router.Bootstrap{
				AdminUsername: args[0],
				AdminPassword: args[1],
			}
			if cmd.Flags().Changed("display-name") {
				req.DisplayName = &displayName
			}
			return router.Run(cmd.Context(), rt, req)
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name for the admin account")

	return cmd
}
