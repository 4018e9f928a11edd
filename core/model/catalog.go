package model

import (
	"errors"
	"fmt"
)

// FoodItem is a dish that can be added to a meal plan.
type FoodItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
}

// CookingPhase is one kind of preparation step, e.g. peeling or roasting.
type CookingPhase struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
	// ApplianceRequired marks phases that cannot run without an appliance.
	ApplianceRequired bool `json:"appliance_required"`
}

// Appliance is a shared kitchen resource that hosts one task at a time.
type Appliance struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
}

// Validate checks the fields common to every catalog entry.
func (f FoodItem) Validate() error { return validateEntry(f.Name, f.Description) }

// Validate checks the fields common to every catalog entry.
func (c CookingPhase) Validate() error { return validateEntry(c.Name, c.Description) }

// Validate checks the fields common to every catalog entry.
func (a Appliance) Validate() error { return validateEntry(a.Name, a.Description) }

// ErrInvalidEntry wraps every catalog validation failure.
var ErrInvalidEntry = errors.New("invalid catalog entry")

const (
	maxNameLen        = 255
	maxDescriptionLen = 1000
)

func validateEntry(name, description string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidEntry, maxNameLen)
	}
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidEntry, maxDescriptionLen)
	}
	return nil
}
