package plugins

import (
	"fmt"

	"github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/factory"
	"github.com/kilianp07/mealplan/core/store"
	"github.com/kilianp07/mealplan/infra/sqlite"
)

type backendConf struct {
	Path      string `json:"path"`
	SavePlans bool   `json:"save_plans"`
}

func init() {
	_ = RegisterBackend("memory", func(raw map[string]any) (Backend, error) {
		var c backendConf
		if err := factory.Decode(raw, &c); err != nil {
			return Backend{}, err
		}
		b := Backend{Catalog: catalog.NewMemoryStore()}
		if c.SavePlans {
			b.Plans = store.NewMemoryStore()
		}
		return b, nil
	})

	_ = RegisterBackend("sqlite", func(raw map[string]any) (Backend, error) {
		var c backendConf
		if err := factory.Decode(raw, &c); err != nil {
			return Backend{}, err
		}
		if c.Path == "" {
			return Backend{}, fmt.Errorf("sqlite backend: path is required")
		}
		cat, err := sqlite.NewCatalogStore(c.Path)
		if err != nil {
			return Backend{}, fmt.Errorf("sqlite catalog: %w", err)
		}
		b := Backend{Catalog: cat}
		if c.SavePlans {
			plans, err := sqlite.NewPlanStore(c.Path)
			if err != nil {
				_ = cat.Close()
				return Backend{}, fmt.Errorf("sqlite plans: %w", err)
			}
			b.Plans = plans
		}
		return b, nil
	})
}
