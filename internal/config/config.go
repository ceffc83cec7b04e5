// Package config loads the YAML settings file for one alplink port:
// serial line settings, the classifier profile tag, and the tunable
// timing constants from spec.md §6.
//
// Grounded on the teacher's standalone/config package for the
// parse-then-apply-defaults shape, switched from encoding/json to
// gopkg.in/yaml.v3 to match the rest of the pack's config-file idiom
// (glennswest-ipmiserial).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is one port's settings, as loaded from YAML.
type Config struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	// Profile selects the classifier: "hhl" or "prodex".
	Profile string `yaml:"profile"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	DiagnosticsInterval    time.Duration `yaml:"diagnostics_interval"`
	DownlinkSilenceTimeout time.Duration `yaml:"downlink_silence_timeout"`
	UplinkSilenceTimeout   time.Duration `yaml:"uplink_silence_timeout"`

	ResendLimit    int `yaml:"resend_limit"`
	ResendLimitNAK int `yaml:"resend_limit_nak"`

	MetricsAddr string `yaml:"metrics_addr"`
}

// Load reads and parses the YAML file at path, then fills in any
// zero-valued field with the spec.md §6 default.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if cfg.Device == "" {
		return nil, fmt.Errorf("config: %s: device is required", path)
	}

	return &cfg, nil
}

// ApplyDefaults fills in any zero-valued field of cfg with the
// spec.md §6 default. Exported so callers building a Config from CLI
// flags (rather than a YAML file) get the same defaults Load applies.
func ApplyDefaults(cfg *Config) {
	if cfg.Baud == 0 {
		cfg.Baud = 9600
	}
	if cfg.Profile == "" {
		cfg.Profile = "hhl"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 2 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 2 * time.Second
	}
	if cfg.DiagnosticsInterval == 0 {
		cfg.DiagnosticsInterval = 5 * time.Second
	}
	if cfg.DownlinkSilenceTimeout == 0 {
		cfg.DownlinkSilenceTimeout = 4500 * time.Millisecond
	}
	if cfg.UplinkSilenceTimeout == 0 {
		cfg.UplinkSilenceTimeout = 19500 * time.Millisecond
	}
	if cfg.ResendLimit == 0 {
		cfg.ResendLimit = 10
	}
	if cfg.ResendLimitNAK == 0 {
		cfg.ResendLimitNAK = 5
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9090"
	}
}
