package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mealplan/config"
	"github.com/kilianp07/mealplan/core/audit"
	"github.com/kilianp07/mealplan/core/events"
	"github.com/kilianp07/mealplan/core/factory"
	"github.com/kilianp07/mealplan/core/model"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.Backend = backend
	cfg.Storage.Path = filepath.Join(dir, "mealplan.db")
	cfg.Audit.Enabled = true
	cfg.Audit.Path = filepath.Join(dir, "audit.jsonl")
	cfg.Server.Token = "tok"
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestServiceEndToEnd(t *testing.T) {
	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			svc, err := New(testConfig(t, backend))
			require.NoError(t, err)
			ctx, cancel := context.WithCancel(context.Background())
			svc.Start(ctx)
			srv := httptest.NewServer(svc.Handler())
			t.Cleanup(func() {
				srv.Close()
				cancel()
				assert.NoError(t, svc.Close())
			})

			req := model.PlanRequest{
				Name:      "Roast",
				ServeTime: time.Now().Add(3 * time.Hour),
				Workers:   2,
				Save:      true,
				Dishes: []model.DishEntry{
					{FoodItemID: 2, Phases: []model.PhaseEntry{{PhaseID: 5, DurationMinutes: 60, ApplianceID: ptr(2)}}},
					{FoodItemID: 7, Phases: []model.PhaseEntry{{PhaseID: 7, DurationMinutes: 10, ApplianceID: ptr(4)}}},
				},
			}
			b, err := json.Marshal(req)
			require.NoError(t, err)
			httpReq, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/plans", bytes.NewReader(b))
			httpReq.Header.Set("Authorization", "Bearer tok")
			resp, err := http.DefaultClient.Do(httpReq)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			var plan model.Plan
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))

			saved, err := svc.Plans.Get(ctx, plan.ID)
			require.NoError(t, err)
			assert.Equal(t, "Roast", saved.Name)

			require.Eventually(t, func() bool {
				recs, err := svc.audit.Query(ctx, audit.Query{PlanID: plan.ID})
				return err == nil && len(recs) == 2
			}, 2*time.Second, 20*time.Millisecond)
			recs, err := svc.audit.Query(ctx, audit.Query{PlanID: plan.ID, Action: events.ActionSaved})
			require.NoError(t, err)
			assert.Len(t, recs, 1)
		})
	}
}

func TestNewRejectsUnknownSink(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "statsd"}}
	_, err := New(cfg)
	assert.Error(t, err)
}

func ptr(v int64) *int64 { return &v }

func TestStartSubscribesBeforeReturning(t *testing.T) {
	for i := 0; i < 20; i++ {
		cfg := testConfig(t, "memory")
		svc, err := New(cfg)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		svc.Start(ctx)

		plan, err := svc.Plans.Generate(ctx, model.PlanRequest{
			ServeTime: time.Now().Add(time.Hour),
			Workers:   1,
			Dishes: []model.DishEntry{
				{FoodItemID: 7, Phases: []model.PhaseEntry{{PhaseID: 7, DurationMinutes: 10, ApplianceID: ptr(4)}}},
			},
		})
		require.NoError(t, err)
		require.NoError(t, svc.Close())
		cancel()

		store, err := audit.Open(cfg.Audit)
		require.NoError(t, err)
		recs, err := store.Query(context.Background(), audit.Query{PlanID: plan.ID, Action: events.ActionGenerated})
		require.NoError(t, err)
		require.NoError(t, store.Close())
		require.Len(t, recs, 1, "iteration %d", i)
	}
}
