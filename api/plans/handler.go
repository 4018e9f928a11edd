// Package plans exposes plan generation and saved plans over HTTP.
package plans

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/mealplan/api/respond"
	"github.com/kilianp07/mealplan/auth"
	"github.com/kilianp07/mealplan/core/model"
	"github.com/kilianp07/mealplan/core/planner"
	coreplans "github.com/kilianp07/mealplan/core/plans"
	"github.com/kilianp07/mealplan/core/store"
	"github.com/kilianp07/mealplan/pkg/export"
)

const module = "api_plans"

// Service is the subset of core/plans.Service used by the handlers.
type Service interface {
	Generate(ctx context.Context, req model.PlanRequest) (*model.Plan, error)
	Get(ctx context.Context, id string) (model.SavedPlan, error)
	List(ctx context.Context) ([]model.SavedPlan, error)
	Delete(ctx context.Context, id string) error
}

// Summary is one entry of GET /api/plans.
type Summary struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	ServeTime            time.Time `json:"serve_time"`
	Workers              int       `json:"workers"`
	Tasks                int       `json:"tasks"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
}

func summarize(p model.SavedPlan) Summary {
	return Summary{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		CreatedAt:            p.CreatedAt,
		ServeTime:            p.Plan.ServeTime,
		Workers:              p.Plan.Workers,
		Tasks:                len(p.Plan.Tasks),
		TotalDurationMinutes: p.Plan.TotalDurationMinutes,
	}
}

type handler struct {
	svc Service
}

// Register mounts the plan routes on mux. Mutating routes require token when
// it is non-empty.
func Register(mux *http.ServeMux, svc Service, token string) {
	h := &handler{svc: svc}
	mux.Handle("POST /api/plans", auth.RequireBearer(token, http.HandlerFunc(h.generate)))
	mux.HandleFunc("GET /api/plans", h.list)
	mux.HandleFunc("GET /api/plans/{id}", h.get)
	mux.HandleFunc("GET /api/plans/{id}/export", h.export)
	mux.Handle("DELETE /api/plans/{id}", auth.RequireBearer(token, http.HandlerFunc(h.delete)))
}

// writeError maps service errors to status codes. Anything unexpected is a
// 500 reported to the monitor.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *planner.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Invalid(w, "invalid plan request", verr.Fields())
	case errors.Is(err, planner.ErrApplianceConflict):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, planner.ErrConstraintViolation), errors.Is(err, planner.ErrDegenerateInput):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, coreplans.ErrStorageDisabled):
		respond.Error(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "plan not found")
	default:
		respond.Internal(w, r, module, err)
	}
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	var req model.PlanRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	plan, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if req.Save {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/plans/"+plan.ID)
	}
	respond.JSON(w, status, plan)
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	saved, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]Summary, 0, len(saved))
	for _, p := range saved {
		out = append(out, summarize(p))
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	saved, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, saved)
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if format != export.FormatHTML {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "plan-"+saved.ID+"."+format.Extension()))
	}
	if err := export.Write(w, format, &saved.Plan); err != nil {
		respond.Internal(w, r, module, fmt.Errorf("export plan %s: %w", saved.ID, err))
	}
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
