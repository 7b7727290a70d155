package devices

import (
	"fmt"

	"github.com/spf13/cobra"

	"ud-control/internal/fingerprint"
	"ud-control/internal/router"
)

func NewEnrollDeviceCommand(globals *router.Globals) *cobra.Command {
	var (
		deviceType        string
		tags              []string
		hostFingerprint   string
		pubkeyFingerprint string
		hostKeyFile       string
		pubkeyFile        string
	)

	cmd := &cobra.Command{
		Use:   "enroll-device <name>",
		Short: "Enroll a device and print its certificate bundle",
		Long: `Enroll a device with the domain.

The response carries the device certificate, its private key and, when the
server has one, the CA certificate. All three are printed as PEM blocks.

Fingerprints may be passed directly or computed from public key files with
--host-key-file and --pubkey-file. An explicit fingerprint wins over a file.`,
		Example: `  udctl enroll-device web-01 --device-type server --tags prod,web \
    --host-key-file /etc/ssh/ssh_host_ed25519_key.pub`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := router.EnrollDevice{
				Name:       args[0],
				DeviceType: deviceType,
				Tags:       tags,
			}

			host, err := resolveFingerprint(hostFingerprint, hostKeyFile, "--host-key-file")
			if err != nil {
				return err
			}
			req.HostFingerprint = host

			pub, err := resolveFingerprint(pubkeyFingerprint, pubkeyFile, "--pubkey-file")
			if err != nil {
				return err
			}
			req.PubkeyFingerprint = pub

			rt, err := router.FromGlobals(globals, nil, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return router.Run(cmd.Context(), rt, req)
		},
	}

	cmd.Flags().StringVar(&deviceType, "device-type", "", "Device type (e.g. server, laptop)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated device tags")
	cmd.Flags().StringVar(&hostFingerprint, "host-fingerprint", "", "SSH host key fingerprint")
	cmd.Flags().StringVar(&pubkeyFingerprint, "pubkey-fingerprint", "", "Device public key fingerprint")
	cmd.Flags().StringVar(&hostKeyFile, "host-key-file", "", "Compute the host fingerprint from this public key file")
	cmd.Flags().StringVar(&pubkeyFile, "pubkey-file", "", "Compute the pubkey fingerprint from this public key file")
	_ = cmd.MarkFlagRequired("device-type")

	return cmd
}

func resolveFingerprint(explicit, file, flag string) (*string, error) {
	if explicit != "" {
		return &explicit, nil
	}
	if file == "" {
		return nil, nil
	}
	fp, err := fingerprint.FromFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", flag, err)
	}
	return &fp, nil
}
