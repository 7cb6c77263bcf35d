package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "MT_"

// cliConfig is the merged configuration for a CLI invocation.
type cliConfig struct {
	LoopLimit      int           `koanf:"loop_limit"`
	RecursionLimit int           `koanf:"recursion_limit"`
	MaxConcurrency int           `koanf:"max_concurrency"`
	FetchTimeout   time.Duration `koanf:"fetch_timeout"`
	Verbose        bool          `koanf:"verbose"`
}

var defaultConfig = map[string]any{
	"loop_limit":      10000,
	"recursion_limit": 256,
	"max_concurrency": 0,
	"fetch_timeout":   "30s",
	"verbose":         false,
}

// configFileUsed returns the config file that loadConfig reads, if any.
// Priority: explicit path > mt.yaml > mt.yml
func configFileUsed(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"mt.yaml", "mt.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadConfig merges configuration sources.
// Precedence (highest to lowest): flags > MT_ env vars > config file > defaults
func loadConfig(cfgFile string, flags *pflag.FlagSet) (cliConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfig, "."), nil); err != nil {
		return cliConfig{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := configFileUsed(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cliConfig{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// MT_LOOP_LIMIT -> loop_limit
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return cliConfig{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return cliConfig{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg cliConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return cliConfig{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

func (c cliConfig) validate() error {
	switch {
	case c.LoopLimit <= 0:
		return fmt.Errorf("loop_limit must be positive, got %d", c.LoopLimit)
	case c.RecursionLimit <= 0:
		return fmt.Errorf("recursion_limit must be positive, got %d", c.RecursionLimit)
	case c.MaxConcurrency < 0:
		return fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency)
	case c.FetchTimeout <= 0:
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}
