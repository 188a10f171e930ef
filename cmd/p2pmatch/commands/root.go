package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/app"
)

var (
	home       string
	passphrase string
	keyringSvc string
	verbose    bool

	appCtx *app.App
)

func Execute() error {
	root := &cobra.Command{
		Use:          "p2pmatch",
		Short:        "Identity and encrypted session tool for the p2pmatch network",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".p2pmatch")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			logger := zerolog.Nop()
			if verbose {
				logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
					With().Timestamp().Logger()
			}

			var err error
			appCtx, err = app.New(app.Config{
				Home:           home,
				KeyringService: keyringSvc,
				Passphrase:     passphrase,
				Logger:         logger,
			})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.p2pmatch)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase sealing stored keys")
	root.PersistentFlags().StringVar(&keyringSvc, "keyring", "", "store keys in the OS keychain under this service name")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log lifecycle events to stderr")

	root.AddCommand(initCmd(), didCmd(), fingerprintCmd(), bundleCmd(), proofCmd(), wipeCmd())
	return root.Execute()
}
