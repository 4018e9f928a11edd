package planner

import "fmt"

// ConflictPolicy controls what happens to appliance double-bookings found
// while assigning workers. Worker choice is never affected.
type ConflictPolicy string

const (
	// ConflictIgnore computes conflicts and drops them.
	ConflictIgnore ConflictPolicy = "ignore"
	// ConflictReport attaches conflicts to the plan and logs a warning.
	ConflictReport ConflictPolicy = "report"
	// ConflictReject refuses plans that double-book an appliance.
	ConflictReject ConflictPolicy = "reject"
)

// Config bounds plan requests.
type Config struct {
	MaxWorkers         int            `json:"max_workers"`
	MaxPhaseMinutes    int            `json:"max_phase_minutes"`
	MaxTasks           int            `json:"max_tasks"`
	ApplianceConflicts ConflictPolicy `json:"appliance_conflicts"`
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.MaxWorkers == 0 {
		c.MaxWorkers = 20
	}
	if c.MaxPhaseMinutes == 0 {
		c.MaxPhaseMinutes = 480
	}
	if c.MaxTasks == 0 {
		c.MaxTasks = 500
	}
	if c.ApplianceConflicts == "" {
		c.ApplianceConflicts = ConflictReport
	}
}

// Validate checks the limits are usable.
func (c Config) Validate() error {
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be positive")
	}
	if c.MaxPhaseMinutes < 1 {
		return fmt.Errorf("max_phase_minutes must be positive")
	}
	if c.MaxTasks < 1 {
		return fmt.Errorf("max_tasks must be positive")
	}
	switch c.ApplianceConflicts {
	case ConflictIgnore, ConflictReport, ConflictReject:
	default:
		return fmt.Errorf("unknown appliance_conflicts policy %q", c.ApplianceConflicts)
	}
	return nil
}
