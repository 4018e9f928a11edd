package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mealplan/api"
	"github.com/kilianp07/mealplan/auth"
	"github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/model"
	"github.com/kilianp07/mealplan/core/planner"
	"github.com/kilianp07/mealplan/core/plans"
	"github.com/kilianp07/mealplan/core/store"
	"github.com/kilianp07/mealplan/pkg/export"
)

func newServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	cat := catalog.NewMemoryStore()
	p, err := planner.New(planner.Config{}, cat)
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewMux(api.Deps{
		Plans:   plans.NewService(p, store.NewMemoryStore(), nil, nil),
		Catalog: cat,
		Token:   token,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func request() model.PlanRequest {
	return model.PlanRequest{
		Name:      "Gravy",
		ServeTime: time.Now().Add(time.Hour),
		Workers:   1,
		Save:      true,
		Dishes: []model.DishEntry{{FoodItemID: 11, Phases: []model.PhaseEntry{
			{PhaseID: 2, DurationMinutes: 5},
			{PhaseID: 10, DurationMinutes: 10},
		}}},
	}
}

func TestGenerateAndExport(t *testing.T) {
	srv := newServer(t, "tok")
	c := New(srv.URL+"/", auth.StaticToken("tok"))
	ctx := context.Background()

	plan, err := c.Generate(ctx, request())
	require.NoError(t, err)
	assert.Len(t, plan.Tasks, 2)
	assert.Equal(t, 15, plan.TotalDurationMinutes)

	var buf bytes.Buffer
	require.NoError(t, c.Export(ctx, plan.ID, export.FormatCSV, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "task_id,"))

	items, err := c.FoodItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 12)
}

func TestValidationErrorCarriesFields(t *testing.T) {
	srv := newServer(t, "")
	req := request()
	req.Workers = 0
	_, err := New(srv.URL, nil).Generate(context.Background(), req)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Fields, "workers")
	assert.Contains(t, err.Error(), "workers")
}

func TestUnauthorizedRetriesWithFreshToken(t *testing.T) {
	var issued atomic.Int32
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := issued.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.Write([]byte(`{"access_token":"stale","token_type":"bearer","expires_in":3600}`))
			return
		}
		w.Write([]byte(`{"access_token":"fresh","token_type":"bearer","expires_in":3600}`))
	}))
	defer tokens.Close()

	srv := newServer(t, "fresh")
	cc := auth.NewClientCred(auth.Conf{ClientID: "id", ClientSecret: "secret", TokenURL: tokens.URL})
	plan, err := New(srv.URL, cc).Generate(context.Background(), request())
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.EqualValues(t, 2, issued.Load())

	_, err = New(srv.URL, auth.StaticToken("wrong")).FoodItems(context.Background())
	assert.NoError(t, err, "reads are public")
	_, err = New(srv.URL, auth.StaticToken("wrong")).Generate(context.Background(), request())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
