package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func didCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "did",
		Short: "Print the local DID",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := appCtx.Identity.LoadIdentity()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no identity; run init first")
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.DID)
			return nil
		},
	}
}
