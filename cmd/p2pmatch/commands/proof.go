package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
)

func proofCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof",
		Short: "Create or verify identity liveness proofs",
	}
	cmd.AddCommand(proofCreateCmd(), proofVerifyCmd())
	return cmd
}

func proofCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Sign a fresh liveness proof and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			proof, err := appCtx.Identity.CreateIdentityProof()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(proof, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func proofVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <did>",
		Short: "Verify a liveness proof read from stdin against a DID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var proof domain.IdentityProof
			if err := json.Unmarshal(raw, &proof); err != nil {
				return fmt.Errorf("parse proof: %w", err)
			}
			if err := appCtx.Identity.VerifyIdentityProof(proof, domain.DID(args[0])); err != nil {
				return fmt.Errorf("proof rejected: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Proof verified")
			return nil
		},
	}
}
