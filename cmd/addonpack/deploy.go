package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thesyncim/addonhost/pkg/addonrepo"
	"github.com/thesyncim/addonhost/pkg/hostver"
)

// targetFromArtifact recovers the build target from an artifact name
// like "inputstream.sample-1.2.3.linux-x86_64.zip".
func targetFromArtifact(zipPath string) (addonrepo.Target, error) {
	name := strings.TrimSuffix(filepath.Base(zipPath), ".zip")
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return addonrepo.Target{}, fmt.Errorf("cannot infer target from %q", name)
	}
	platform, arch, ok := strings.Cut(name[i+1:], "-")
	if !ok || platform == "" || arch == "" {
		return addonrepo.Target{}, fmt.Errorf("cannot infer target from %q", name)
	}
	return addonrepo.Target{Platform: platform, Arch: arch}, nil
}

func deployCmd() *cobra.Command {
	var (
		zipPath    string
		repoDir    string
		hostName   string
		platform   string
		arch       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Publish a packaged addon into the repository tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return deployFromConfig(configPath, zipPath)
			}

			host, err := hostver.Parse(hostName)
			if err != nil {
				return err
			}

			var target addonrepo.Target
			if platform != "" && arch != "" {
				target = addonrepo.Target{Platform: platform, Arch: arch}
			} else {
				if target, err = targetFromArtifact(zipPath); err != nil {
					return err
				}
				log.Debug().Str("target", target.String()).Msg("target inferred from artifact name")
			}

			repo := addonrepo.New(repoDir, &log)
			if err := repo.Publish(zipPath, host, target); err != nil {
				return err
			}
			return repo.WriteIndex(host, target)
		},
	}

	cmd.Flags().StringVar(&zipPath, "zip", "", "packaged addon artifact")
	cmd.Flags().StringVar(&repoDir, "repo", "", "repository root directory")
	cmd.Flags().StringVar(&hostName, "host", "", "host release (leia, matrix, nexus, omega)")
	cmd.Flags().StringVar(&platform, "platform", "", "target platform (inferred when omitted)")
	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (inferred when omitted)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "deploy.yaml with hosts and targets")
	cmd.MarkFlagRequired("zip")
	return cmd
}

// deployFromConfig publishes one artifact to every host branch listed
// in deploy.yaml. The artifact's own target must appear in the config.
func deployFromConfig(configPath, zipPath string) error {
	cfg, err := loadDeployConfig(configPath)
	if err != nil {
		return err
	}

	hosts, err := cfg.hosts()
	if err != nil {
		return err
	}

	target, err := targetFromArtifact(zipPath)
	if err != nil {
		return err
	}

	found := false
	for _, t := range cfg.targets() {
		if t == target {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("artifact target %s not listed in %s", target, configPath)
	}

	repo := addonrepo.New(cfg.Repo, &log)
	for _, host := range hosts {
		if err := repo.Publish(zipPath, host, target); err != nil {
			return err
		}
		if err := repo.WriteIndex(host, target); err != nil {
			return err
		}
	}
	return nil
}
