package policies

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ud-control/internal/router"
)

func NewCreatePolicyCommand(globals *router.Globals) *cobra.Command {
	var (
		effect      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create-policy <group_id> <host_tag>",
		Short: "Grant or deny a group access to hosts carrying a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid group_id %q: %w", args[0], err)
			}

			req := router.CreatePolicy{
				GroupID: groupID,
				HostTag: args[1],
				Effect:  effect,
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}

			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, req)
		},
	}

	cmd.Flags().StringVar(&effect, "effect", "allow", "Policy effect: allow or deny")
	cmd.Flags().StringVar(&description, "description", "", "Free-form policy description")

	return cmd
}
