package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func wipeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Destroy the identity and everything derived from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("wipe destroys the identity, prekeys and sessions; pass --yes to confirm")
			}
			if err := appCtx.Identity.ClearAllData(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data destroyed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destruction")
	return cmd
}
