package groups

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ud-control/internal/router"
)

func NewCreateGroupCommand(globals *router.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "create-group <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, router.CreateGroup{Name: args[0]})
		},
	}
}

func NewAddMemberCommand(globals *router.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <group_id> <user_id>",
		Short: "Add a user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid group_id %q: %w", args[0], err)
			}
			userID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid user_id %q: %w", args[1], err)
			}

			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, router.AddMember{GroupID: groupID, UserID: userID})
		},
	}
}
