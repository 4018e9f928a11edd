package audit

import (
	"net/http"
	"time"

	"github.com/kilianp07/mealplan/api/respond"
	"github.com/kilianp07/mealplan/auth"
	coreaudit "github.com/kilianp07/mealplan/core/audit"
	"github.com/kilianp07/mealplan/core/events"
)

// NewHandler returns an HTTP handler exposing the plan audit trail via
// GET /api/audit. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
//
// Query parameters: start and end (RFC 3339), plan_id and action.
func NewHandler(store coreaudit.Store, token string) http.Handler {
	return auth.RequireBearer(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := coreaudit.Query{
			PlanID: r.URL.Query().Get("plan_id"),
			Action: events.Action(r.URL.Query().Get("action")),
		}
		for name, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
			s := r.URL.Query().Get(name)
			if s == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, name+" must be an RFC 3339 timestamp")
				return
			}
			*dst = t
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			respond.Internal(w, r, "api_audit", err)
			return
		}
		if records == nil {
			records = []events.PlanEvent{}
		}
		respond.JSON(w, http.StatusOK, records)
	}))
}
