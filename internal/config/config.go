// Package config loads the mtbridge TOML configuration file.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Backend names accepted in [backend] preferred.
const (
	BackendCompatRuntime  = "compatRuntime"
	BackendVirtualMachine = "virtualMachine"
)

// DefaultVMName is the Parallels VM addressed when none is configured.
const DefaultVMName = "Windows 11"

type Config struct {
	Backend BackendConfig `toml:"backend"`
	Wine    WineConfig    `toml:"wine"`
	Paths   PathsConfig   `toml:"paths"`
	Cache   CacheConfig   `toml:"cache"`
}

type BackendConfig struct {
	Preferred string `toml:"preferred"`
	VMName    string `toml:"vm_name"`
	// Programs that must be launched through the Parallels desktop app.
	// Matched case-insensitively against the base name, with or without .exe.
	Targets []string `toml:"targets"`
}

type WineConfig struct {
	// Prefix overrides the detected Wine prefix. Empty means the MetaQuotes default.
	Prefix string `toml:"prefix"`
	Binary string `toml:"binary"`
}

type PathsConfig struct {
	// VolumesRoot is where host volumes are mounted. Empty picks a per-OS default.
	VolumesRoot string `toml:"volumes_root"`
	// Alternates replaces the built-in fallback candidates. Each entry is a
	// template using {rel}, {base} and {home}.
	Alternates []string `toml:"alternates"`
}

type CacheConfig struct {
	TTL duration `toml:"ttl"`
}

// duration decodes TOML strings such as "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "parsing duration %q", text)
	}
	d.Duration = v
	return nil
}

// Load reads the config from $XDG_CONFIG_HOME/mtbridge/config.toml, or from
// path when it is non-empty. Returns defaults if the default file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		// A missing file is not an error; SearchConfigFile fails in that case.
		path, _ = xdg.SearchConfigFile("mtbridge/config.toml")
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			Preferred: BackendCompatRuntime,
			VMName:    DefaultVMName,
			Targets:   []string{"metaeditor", "metaeditor64"},
		},
		Wine: WineConfig{
			Binary: "wine64",
		},
		Cache: CacheConfig{
			TTL: duration{30 * time.Second},
		},
	}
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Backend.Preferred {
	case BackendCompatRuntime, BackendVirtualMachine:
	default:
		return errors.WithHint(
			errors.Newf("unknown backend %q", c.Backend.Preferred),
			`Set [backend] preferred to "compatRuntime" or "virtualMachine".`,
		)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.Newf("cache ttl must not be negative (got %s)", c.Cache.TTL.Duration)
	}
	return nil
}

// TTL returns the volume cache staleness bound.
func (c *Config) TTL() time.Duration {
	return c.Cache.TTL.Duration
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MTBRIDGE_BACKEND"); v != "" {
		cfg.Backend.Preferred = v
	}
	if v := os.Getenv("MTBRIDGE_VM"); v != "" {
		cfg.Backend.VMName = v
	}
	if v := os.Getenv("MTBRIDGE_WINE_PREFIX"); v != "" {
		cfg.Wine.Prefix = v
	}
	if v := os.Getenv("MTBRIDGE_WINE_BINARY"); v != "" {
		cfg.Wine.Binary = v
	}
	cfg.Backend.Preferred = normalizeBackend(cfg.Backend.Preferred)
	if cfg.Backend.VMName == "" {
		cfg.Backend.VMName = DefaultVMName
	}
}

// normalizeBackend accepts the backend names case-insensitively, plus the
// product names users tend to type.
func normalizeBackend(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "compatruntime", "wine":
		return BackendCompatRuntime
	case "virtualmachine", "parallels", "vm":
		return BackendVirtualMachine
	}
	return name
}
