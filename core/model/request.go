package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PhaseEntry is one requested cooking phase of a dish.
type PhaseEntry struct {
	PhaseID         int64 `json:"phase_id" yaml:"phase_id"`
	DurationMinutes int   `json:"duration_minutes" yaml:"duration_minutes"`
	// ApplianceID is set only for phases whose definition requires an appliance.
	ApplianceID *int64 `json:"appliance_id,omitempty" yaml:"appliance_id,omitempty"`
}

// DishEntry references a food item and lists its phases in cooking order.
type DishEntry struct {
	FoodItemID int64        `json:"food_item_id" yaml:"food_item_id"`
	Phases     []PhaseEntry `json:"phases" yaml:"phases"`
}

// PlanRequest is the caller input for plan generation.
type PlanRequest struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	ServeTime   time.Time   `json:"serve_time" yaml:"serve_time"`
	Workers     int         `json:"workers" yaml:"workers"`
	Dishes      []DishEntry `json:"dishes" yaml:"dishes"`
	// Save asks the service to keep the generated plan.
	Save bool `json:"save,omitempty" yaml:"save,omitempty"`
}

// PhaseSpec is a phase entry resolved against the catalog.
type PhaseSpec struct {
	PhaseID         int64
	PhaseName       string
	DurationMinutes int
	ApplianceID     int64
	ApplianceName   string
}

// Duration returns the phase length.
func (p PhaseSpec) Duration() time.Duration {
	return time.Duration(p.DurationMinutes) * time.Minute
}

// Dish is a dish entry resolved against the catalog.
type Dish struct {
	FoodItemID int64
	Name       string
	Phases     []PhaseSpec
}

// LoadRequest reads a PlanRequest from a JSON or YAML file.
func LoadRequest(path string) (PlanRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return PlanRequest{}, err
	}
	defer func() { _ = f.Close() }()
	return DecodeRequest(f, strings.TrimPrefix(filepath.Ext(path), "."))
}

// DecodeRequest reads a PlanRequest from r in the given format.
func DecodeRequest(r io.Reader, format string) (PlanRequest, error) {
	var req PlanRequest
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&req); err != nil {
			return req, fmt.Errorf("decode yaml request: %w", err)
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return req, fmt.Errorf("decode json request: %w", err)
		}
	default:
		return req, fmt.Errorf("unsupported format: %s", format)
	}
	return req, nil
}
