// Package api assembles the HTTP routes of the plan service.
package api

import (
	"net/http"

	apiaudit "github.com/kilianp07/mealplan/api/audit"
	apicatalog "github.com/kilianp07/mealplan/api/catalog"
	apiplans "github.com/kilianp07/mealplan/api/plans"
	"github.com/kilianp07/mealplan/api/respond"
	"github.com/kilianp07/mealplan/core/audit"
	"github.com/kilianp07/mealplan/core/catalog"
)

// Deps are the collaborators behind the routes. Audit may be nil.
type Deps struct {
	Plans   apiplans.Service
	Catalog catalog.Store
	Audit   audit.Store
	Token   string
}

// NewMux returns a mux serving /healthz and every /api route.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	apiplans.Register(mux, d.Plans, d.Token)
	apicatalog.Register(mux, d.Catalog, d.Token)
	if d.Audit != nil {
		mux.Handle("GET /api/audit", apiaudit.NewHandler(d.Audit, d.Token))
	}
	return mux
}
