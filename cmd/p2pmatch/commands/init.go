package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a fresh identity and DID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && appCtx.Identity.HasIdentity() {
				return fmt.Errorf("an identity already exists; pass --force to replace it")
			}
			id, err := appCtx.Identity.GenerateIdentity()
			if err != nil {
				return err
			}
			fp, err := appCtx.Identity.Fingerprint()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Identity created.\nDID:         %s\nFingerprint: %s\n", id.DID, fp)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing identity")
	return cmd
}
