package users

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ud-control/internal/fingerprint"
	"ud-control/internal/router"
)

func NewCreateUserCommand(globals *router.Globals) *cobra.Command {
	var sshKey string

	cmd := &cobra.Command{
		Use:   "create-user <username> <display_name> <password>",
		Short: "Create a domain user",
		Long: `Create a domain user, optionally with one SSH public key.

The --ssh-key value must be a single authorized_keys line such as
"ssh-ed25519 AAAA... alice@laptop"; it is checked locally before sending.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := router.CreateUser{
				Username:    args[0],
				DisplayName: args[1],
				Password:    args[2],
			}

			if cmd.Flags().Changed("ssh-key") {
				if _, err := fingerprint.ParseAuthorizedKey(sshKey); err != nil {
					return fmt.Errorf("--ssh-key: %w", err)
				}
				key := strings.TrimSpace(sshKey)
				req.SSHKey = &key
			}

			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, req)
		},
	}

	cmd.Flags().StringVar(&sshKey, "ssh-key", "", "SSH public key (authorized_keys format)")

	return cmd
}
