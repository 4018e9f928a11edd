// Package config loads the service configuration from an optional YAML or
// JSON file overlaid with MEALPLAN_ environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/mealplan/core/audit"
	"github.com/kilianp07/mealplan/core/metrics"
	"github.com/kilianp07/mealplan/core/planner"
	"github.com/kilianp07/mealplan/infra/monitoring"
	"github.com/kilianp07/mealplan/infra/mqtt"
)

// EnvPrefix marks environment overrides. MEALPLAN_SERVER__ADDR sets
// server.addr.
const EnvPrefix = "MEALPLAN_"

type Config struct {
	Server  ServerConfig      `json:"server"`
	Client  ClientConfig      `json:"client"`
	Planner planner.Config    `json:"planner"`
	Storage StorageConfig     `json:"storage"`
	Metrics metrics.Config    `json:"metrics"`
	Audit   audit.Config      `json:"audit"`
	MQTT    mqtt.Config       `json:"mqtt"`
	Sentry  monitoring.Config `json:"sentry"`
	Logging LoggingConfig     `json:"logging"`
}

// Load reads path (when non-empty), applies environment overrides, fills
// defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset values in every section.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Planner.SetDefaults()
	c.Storage.SetDefaults()
	c.Audit.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section and names the failing one.
func (c Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"server", c.Server.Validate()},
		{"client", c.Client.Validate()},
		{"planner", c.Planner.Validate()},
		{"storage", c.Storage.Validate()},
		{"audit", c.Audit.Validate()},
		{"mqtt", c.MQTT.Validate()},
		{"sentry", c.Sentry.Validate()},
		{"logging", c.Logging.Validate()},
	}
	for _, ch := range checks {
		if ch.err != nil {
			return fmt.Errorf("%s: %w", ch.section, ch.err)
		}
	}
	return nil
}
