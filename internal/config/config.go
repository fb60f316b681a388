// Package config loads the optional defaults file of hostping.
//
// The file is TOML. Every key is optional; the application only applies the
// keys present in the file, and only to settings not given on the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Probe  ProbeConfig  `toml:"probe"`
	DNS    DNSConfig    `toml:"dns"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`

	meta toml.MetaData
}

type ProbeConfig struct {
	Count    int     `toml:"count"`
	Timeout  float64 `toml:"timeout"`
	Interval float64 `toml:"interval"`
	Verbose  bool    `toml:"verbose"`
	Mode     string  `toml:"mode"`
	Port     int     `toml:"port"`

	Unprivileged bool `toml:"unprivileged"`
}

type DNSConfig struct {
	Server string `toml:"server"`
	IPv4   bool   `toml:"ipv4"`
	IPv6   bool   `toml:"ipv6"`
}

type OutputConfig struct {
	NoColor bool `toml:"no_color"`
}

type LogConfig struct {
	File     string `toml:"file"`
	Level    string `toml:"level"`
	MaxMB    int    `toml:"max_mb"`
	MaxFiles int    `toml:"max_files"`
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file not found: %w", err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.meta = md

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// IsSet reports whether the dotted key, e.g. "probe.count", is present in the file.
func (c *Config) IsSet(key string) bool {
	return c.meta.IsDefined(strings.Split(key, ".")...)
}

func (c *Config) validate() error {
	var errs []string

	if c.IsSet("probe.count") && c.Probe.Count < 1 {
		errs = append(errs, "probe.count must be >= 1")
	}
	if c.IsSet("probe.timeout") && c.Probe.Timeout <= 0 {
		errs = append(errs, "probe.timeout must be > 0")
	}
	if c.IsSet("probe.interval") && c.Probe.Interval < 0 {
		errs = append(errs, "probe.interval must be >= 0")
	}
	if c.IsSet("probe.mode") {
		switch c.Probe.Mode {
		case "auto", "icmp", "tcp":
		default:
			errs = append(errs, "probe.mode must be one of auto, icmp, tcp")
		}
	}
	if c.IsSet("probe.port") && (c.Probe.Port < 1 || c.Probe.Port > 65535) {
		errs = append(errs, "probe.port must be in 1..65535 range")
	}
	if c.IsSet("dns.server") && strings.TrimSpace(c.DNS.Server) == "" {
		errs = append(errs, "dns.server must not be empty")
	}
	if c.DNS.IPv4 && c.DNS.IPv6 {
		errs = append(errs, "only one of dns.ipv4 and dns.ipv6 can be set")
	}
	if c.IsSet("log.max_mb") && c.Log.MaxMB <= 0 {
		errs = append(errs, "log.max_mb must be > 0")
	}
	if c.IsSet("log.max_files") && c.Log.MaxFiles <= 0 {
		errs = append(errs, "log.max_files must be > 0")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}
