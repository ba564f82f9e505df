// Package config loads the process YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HSS is the hss.* config section.
type HSS struct {
	BindIP                     []string `yaml:"bind_ip"`
	BindPort                   int      `yaml:"bind_port"`
	Transport                  string   `yaml:"transport"`
	ClientSocketTimeout        int      `yaml:"client_socket_timeout"`
	DiameterRequestTimeout     int      `yaml:"diameter_request_timeout"`
	ActiveDiameterPeersTimeout int      `yaml:"active_diameter_peers_timeout"`
}

// Redis is the redis.* config section.
type Redis struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	UseUnixSocket  bool   `yaml:"useUnixSocket"`
	UnixSocketPath string `yaml:"unixSocketPath"`
}

// Benchmarking is the benchmarking.* config section.
type Benchmarking struct {
	Enabled          bool `yaml:"enabled"`
	ReportingInterval int `yaml:"reporting_interval"`
}

// Config is the full process configuration.
type Config struct {
	HSS          HSS          `yaml:"hss"`
	Redis        Redis        `yaml:"redis"`
	Benchmarking Benchmarking `yaml:"benchmarking"`
}

// Load reads and parses the YAML file at path, applying defaults for any
// field left unset. A missing or unreadable config file is fatal at
// startup — Load returns the error and the caller is expected to log and
// exit.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.HSS.BindIP) == 0 {
		c.HSS.BindIP = []string{"0.0.0.0"}
	}
	if c.HSS.BindPort == 0 {
		c.HSS.BindPort = 3868
	}
	if c.HSS.Transport == "" {
		c.HSS.Transport = "TCP"
	}
	if c.HSS.ClientSocketTimeout == 0 {
		c.HSS.ClientSocketTimeout = 300
	}
	if c.HSS.DiameterRequestTimeout == 0 {
		c.HSS.DiameterRequestTimeout = 10
	}
	if c.HSS.ActiveDiameterPeersTimeout == 0 {
		c.HSS.ActiveDiameterPeersTimeout = 3600
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.UnixSocketPath == "" {
		c.Redis.UnixSocketPath = "/var/run/redis/redis-server.sock"
	}

	if c.Benchmarking.ReportingInterval == 0 {
		c.Benchmarking.ReportingInterval = 3600
	}
}

// BindAddr returns the first configured bind IP and port joined as a
// dial/listen address.
func (c *Config) BindAddr() string {
	return fmt.Sprintf("%s:%d", c.HSS.BindIP[0], c.HSS.BindPort)
}
