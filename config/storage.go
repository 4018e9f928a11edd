package config

import (
	"fmt"

	"github.com/kilianp07/mealplan/core/factory"
)

// StorageConfig selects where the catalog and saved plans live.
type StorageConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the sqlite database file.
	Path string `json:"path"`
	// SavePlans disables the plan store when false; the catalog is always
	// available.
	SavePlans *bool `json:"save_plans"`
}

// SetDefaults applies sane defaults.
func (c *StorageConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "mealplan.db"
	}
	if c.SavePlans == nil {
		on := true
		c.SavePlans = &on
	}
}

// PlansEnabled reports whether generated plans may be saved.
func (c StorageConfig) PlansEnabled() bool { return c.SavePlans == nil || *c.SavePlans }

// Validate checks mandatory fields.
func (c StorageConfig) Validate() error {
	switch c.Backend {
	case "memory":
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}

// Module describes the backend for the storage plugin registry.
func (c StorageConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{
		Type: c.Backend,
		Conf: map[string]any{"path": c.Path, "save_plans": c.PlansEnabled()},
	}
}
