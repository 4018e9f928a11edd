// Package plugins registers the storage backends the service can be built
// with. Backends are selected by name from configuration.
package plugins

import (
	"errors"

	"github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/factory"
	"github.com/kilianp07/mealplan/core/store"
)

// Backend holds the catalog and, when saving is enabled, the plan store.
type Backend struct {
	Catalog catalog.Store
	Plans   store.PlanStore
}

// Close releases both stores.
func (b Backend) Close() error {
	var errs []error
	if b.Plans != nil {
		errs = append(errs, b.Plans.Close())
	}
	if b.Catalog != nil {
		errs = append(errs, b.Catalog.Close())
	}
	return errors.Join(errs...)
}

// BackendFactory builds a backend from its raw configuration.
type BackendFactory = factory.Factory[Backend]

var backends = factory.NewRegistry[Backend]()

// RegisterBackend makes a backend available under name.
func RegisterBackend(name string, f BackendFactory) error {
	return backends.Register(name, f)
}

// NewBackend builds the backend described by cfg.
func NewBackend(cfg factory.ModuleConfig) (Backend, error) {
	return backends.Create(cfg)
}

// Backends lists registered backend names.
func Backends() []string { return backends.Names() }
