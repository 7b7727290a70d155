package audit

import (
	"github.com/spf13/cobra"

	"ud-control/internal/router"
)

func NewListAuditCommand(globals *router.Globals) *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "list-audit",
		Short: "Print recent audit records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, router.ListAudit{Limit: limit})
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", 50, "Maximum number of records")

	return cmd
}
