package main

import (
	"github.com/spf13/cobra"

	"github.com/thesyncim/addonhost/pkg/addonrepo"
)

func packCmd() *cobra.Command {
	var (
		addonDir string
		outDir   string
		platform string
		arch     string
	)

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Zip an addon directory into an installable artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := addonrepo.Target{Platform: platform, Arch: arch}

			zipPath, err := addonrepo.Package(addonDir, outDir, target)
			if err != nil {
				log.Error().Err(err).Msg("packaging failed")
				return err
			}

			log.Info().Str("artifact", zipPath).Str("target", target.String()).Msg("packaged")
			return nil
		},
	}

	cmd.Flags().StringVar(&addonDir, "addon", ".", "addon directory containing addon.xml")
	cmd.Flags().StringVar(&outDir, "out", "dist", "output directory for the zip")
	cmd.Flags().StringVar(&platform, "platform", "linux", "target platform")
	cmd.Flags().StringVar(&arch, "arch", "x86_64", "target architecture")
	return cmd
}
