package plans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mealplan/api/respond"
	"github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/model"
	"github.com/kilianp07/mealplan/core/planner"
	coreplans "github.com/kilianp07/mealplan/core/plans"
	"github.com/kilianp07/mealplan/core/store"
)

const token = "s3cret"

func newServer(t *testing.T, st store.PlanStore) *httptest.Server {
	t.Helper()
	p, err := planner.New(planner.Config{}, catalog.NewMemoryStore())
	require.NoError(t, err)
	mux := http.NewServeMux()
	Register(mux, coreplans.NewService(p, st, nil, nil), token)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func body(t *testing.T, save bool, workers int) *bytes.Buffer {
	t.Helper()
	req := map[string]any{
		"name":       "Sunday roast",
		"serve_time": time.Now().Add(6 * time.Hour).UTC().Format(time.RFC3339),
		"workers":    workers,
		"save":       save,
		"dishes": []map[string]any{
			{"food_item_id": 1, "phases": []map[string]any{
				{"phase_id": 3, "duration_minutes": 20},
				{"phase_id": 5, "duration_minutes": 90, "appliance_id": 1},
			}},
			{"food_item_id": 5, "phases": []map[string]any{
				{"phase_id": 3, "duration_minutes": 15},
				{"phase_id": 5, "duration_minutes": 45, "appliance_id": 2},
			}},
		},
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, method, url string, b *bytes.Buffer, auth bool) *http.Response {
	t.Helper()
	if b == nil {
		b = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, url, b)
	require.NoError(t, err)
	if auth {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestGenerateSaveListExportDelete(t *testing.T) {
	srv := newServer(t, store.NewMemoryStore())

	resp := do(t, http.MethodPost, srv.URL+"/api/plans", body(t, true, 2), true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var plan model.Plan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.Len(t, plan.Tasks, 4)
	assert.Equal(t, 110, plan.TotalDurationMinutes)
	assert.Equal(t, "/api/plans/"+plan.ID, resp.Header.Get("Location"))

	resp = do(t, http.MethodGet, srv.URL+"/api/plans", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Sunday roast", list[0].Name)
	assert.Equal(t, 4, list[0].Tasks)

	resp = do(t, http.MethodGet, srv.URL+"/api/plans/"+plan.ID, nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var saved model.SavedPlan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.Equal(t, 2, saved.Request.Workers)

	resp = do(t, http.MethodGet, srv.URL+"/api/plans/"+plan.ID+"/export?format=csv", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	var csv bytes.Buffer
	_, _ = csv.ReadFrom(resp.Body)
	assert.Equal(t, 5, strings.Count(csv.String(), "\n"))

	resp = do(t, http.MethodGet, srv.URL+"/api/plans/"+plan.ID+"/export?format=workers", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("attachment; filename=%q", "plan-"+plan.ID+".csv"), resp.Header.Get("Content-Disposition"))

	resp = do(t, http.MethodGet, srv.URL+"/api/plans/"+plan.ID+"/export?format=pdf", nil, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/plans/"+plan.ID, nil, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/api/plans/"+plan.ID, nil, true)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, srv.URL+"/api/plans/"+plan.ID, nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerateValidationErrors(t *testing.T) {
	srv := newServer(t, nil)

	resp := do(t, http.MethodPost, srv.URL+"/api/plans", body(t, false, 0), true)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var eb respond.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&eb))
	assert.Contains(t, eb.Fields, "workers")

	resp = do(t, http.MethodPost, srv.URL+"/api/plans", bytes.NewBufferString(`{"dishes":`), true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/plans", body(t, false, 1), false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStorageDisabled(t *testing.T) {
	srv := newServer(t, nil)
	resp := do(t, http.MethodPost, srv.URL+"/api/plans", body(t, false, 1), true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/api/plans", body(t, true, 1), true)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	resp = do(t, http.MethodGet, srv.URL+"/api/plans", nil, false)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

type brokenService struct{ Service }

func (brokenService) List(context.Context) ([]model.SavedPlan, error) {
	return nil, errors.New("database is locked")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, brokenService{}, "")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plans", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "locked")
}
