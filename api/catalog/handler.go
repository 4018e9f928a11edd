// Package catalog exposes food items, cooking phases and appliances over
// HTTP. Default entries are listed but cannot be changed.
package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/kilianp07/mealplan/api/respond"
	"github.com/kilianp07/mealplan/auth"
	corecatalog "github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/model"
)

const module = "api_catalog"

// resource binds the CRUD operations of one entry kind.
type resource[T any] struct {
	path   string
	list   func(context.Context) ([]T, error)
	create func(context.Context, T) (T, error)
	update func(context.Context, T) (T, error)
	remove func(context.Context, int64) error
	setID  func(*T, int64)
}

// Register mounts the catalog routes on mux. Mutating routes require token
// when it is non-empty.
func Register(mux *http.ServeMux, s corecatalog.Store, token string) {
	resource[model.FoodItem]{
		path:   "/api/food-items",
		list:   s.ListFoodItems,
		create: s.CreateFoodItem,
		update: s.UpdateFoodItem,
		remove: s.DeleteFoodItem,
		setID:  func(f *model.FoodItem, id int64) { f.ID = id },
	}.register(mux, token)
	resource[model.CookingPhase]{
		path:   "/api/cooking-phases",
		list:   s.ListCookingPhases,
		create: s.CreateCookingPhase,
		update: s.UpdateCookingPhase,
		remove: s.DeleteCookingPhase,
		setID:  func(c *model.CookingPhase, id int64) { c.ID = id },
	}.register(mux, token)
	resource[model.Appliance]{
		path:   "/api/appliances",
		list:   s.ListAppliances,
		create: s.CreateAppliance,
		update: s.UpdateAppliance,
		remove: s.DeleteAppliance,
		setID:  func(a *model.Appliance, id int64) { a.ID = id },
	}.register(mux, token)
}

func (rs resource[T]) register(mux *http.ServeMux, token string) {
	mux.HandleFunc("GET "+rs.path, rs.handleList)
	mux.Handle("POST "+rs.path, auth.RequireBearer(token, http.HandlerFunc(rs.handleCreate)))
	mux.Handle("PUT "+rs.path+"/{id}", auth.RequireBearer(token, http.HandlerFunc(rs.handleUpdate)))
	mux.Handle("DELETE "+rs.path+"/{id}", auth.RequireBearer(token, http.HandlerFunc(rs.handleDelete)))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, corecatalog.ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, corecatalog.ErrReadOnly):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrInvalidEntry):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respond.Internal(w, r, module, err)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (rs resource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := rs.list(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

func (rs resource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in T
	if !respond.Decode(w, r, &in) {
		return
	}
	out, err := rs.create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, out)
}

func (rs resource[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in T
	if !respond.Decode(w, r, &in) {
		return
	}
	rs.setID(&in, id)
	out, err := rs.update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

func (rs resource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := rs.remove(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
