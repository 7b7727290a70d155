package login

import (
	"github.com/spf13/cobra"

	"ud-control/internal/router"
)

func NewLoginCommand(globals *router.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Check a user's password against the domain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, router.Login{
				Username: args[0],
				Password: args[1],
			})
		},
	}
}
