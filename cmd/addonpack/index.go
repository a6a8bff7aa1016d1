package main

import (
	"github.com/spf13/cobra"

	"github.com/thesyncim/addonhost/pkg/addonrepo"
	"github.com/thesyncim/addonhost/pkg/hostver"
)

func indexCmd() *cobra.Command {
	var (
		repoDir    string
		hostName   string
		platform   string
		arch       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Regenerate addons.xml and its checksum for a repository branch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := loadDeployConfig(configPath)
				if err != nil {
					return err
				}
				hosts, err := cfg.hosts()
				if err != nil {
					return err
				}
				repo := addonrepo.New(cfg.Repo, &log)
				for _, host := range hosts {
					for _, target := range cfg.targets() {
						if err := repo.WriteIndex(host, target); err != nil {
							return err
						}
					}
				}
				return nil
			}

			host, err := hostver.Parse(hostName)
			if err != nil {
				return err
			}
			repo := addonrepo.New(repoDir, &log)
			return repo.WriteIndex(host, addonrepo.Target{Platform: platform, Arch: arch})
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", "", "repository root directory")
	cmd.Flags().StringVar(&hostName, "host", "", "host release (leia, matrix, nexus, omega)")
	cmd.Flags().StringVar(&platform, "platform", "linux", "target platform")
	cmd.Flags().StringVar(&arch, "arch", "x86_64", "target architecture")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "deploy.yaml with hosts and targets")
	return cmd
}
