package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thesyncim/addonhost/pkg/addonrepo"
	"github.com/thesyncim/addonhost/pkg/hostver"
)

// deployConfig is the deploy.yaml file describing where artifacts go.
type deployConfig struct {
	Repo    string   `yaml:"repo"`
	Hosts   []string `yaml:"hosts"`
	Targets []struct {
		Platform string `yaml:"platform"`
		Arch     string `yaml:"arch"`
	} `yaml:"targets"`
}

func loadDeployConfig(path string) (*deployConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &deployConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Repo == "" {
		return nil, fmt.Errorf("%s: repo is required", path)
	}
	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("%s: at least one host is required", path)
	}
	return cfg, nil
}

func (c *deployConfig) hosts() ([]hostver.Host, error) {
	hosts := make([]hostver.Host, 0, len(c.Hosts))
	for _, name := range c.Hosts {
		h, err := hostver.Parse(name)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, h)
	}
	return hosts, nil
}

func (c *deployConfig) targets() []addonrepo.Target {
	targets := make([]addonrepo.Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		targets = append(targets, addonrepo.Target{Platform: t.Platform, Arch: t.Arch})
	}
	return targets
}
