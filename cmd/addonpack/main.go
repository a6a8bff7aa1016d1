// addonpack packages binary addons and maintains the addon repository
// tree they are installed from.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "addonpack",
		Short: "Package and publish binary addons",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(packCmd())
	rootCmd.AddCommand(deployCmd())
	rootCmd.AddCommand(indexCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
