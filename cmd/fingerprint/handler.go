package fingerprint

import (
	"fmt"

	"github.com/spf13/cobra"

	sshfp "ud-control/internal/fingerprint"
)

func NewFingerprintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <public-key-file>",
		Short: "Print the SHA256 fingerprint of an SSH public key file",
		Long: `Print the SHA256 fingerprint of an SSH public key, in the form the
domain server expects for --host-fingerprint and --pubkey-fingerprint.`,
		Example: "  udctl fingerprint /etc/ssh/ssh_host_ed25519_key.pub",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := sshfp.FromFile(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fp)
			return err
		},
	}
}
