package health

import (
	"github.com/spf13/cobra"

	"ud-control/internal/router"
)

func NewHealthCommand(globals *router.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the domain server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, router.Health{})
		},
	}
}
