package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func bundleCmd() *cobra.Command {
	var oneTime int
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Emit a prekey bundle for publication",
		Long: `Emit a signed prekey bundle as JSON on stdout.

The bundle is what a discovery layer publishes so peers can start an
encrypted session while this node is offline. Each run tops the one-time
prekey pool up to --one-time and attaches one of them to the bundle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.PreKeys.ReplenishOneTimeKeys(oneTime); err != nil {
				return err
			}
			bundle, err := appCtx.PreKeys.GeneratePreKeyBundle()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().IntVar(&oneTime, "one-time", 10, "size of the one-time prekey pool to maintain")
	return cmd
}
