package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	coreaudit "github.com/kilianp07/mealplan/core/audit"
	"github.com/kilianp07/mealplan/core/events"
)

func TestAuditHandler(t *testing.T) {
	store, err := coreaudit.NewRotatingJSONLStore(filepath.Join(t.TempDir(), "audit.jsonl"), 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	now := time.Now().UTC()
	_ = store.Append(context.Background(), events.PlanEvent{Action: events.ActionGenerated, PlanID: "a", Time: now.Add(-2 * time.Hour)})
	_ = store.Append(context.Background(), events.PlanEvent{Action: events.ActionSaved, PlanID: "a", Time: now.Add(-time.Hour)})
	_ = store.Append(context.Background(), events.PlanEvent{Action: events.ActionGenerated, PlanID: "b", Time: now})

	h := NewHandler(store, "tok")

	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/audit?action=generated&start="+now.Add(-3*time.Hour).Format(time.RFC3339), nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var out []events.PlanEvent
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records got %d", len(out))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/audit?plan_id=a", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	out = nil
	_ = json.NewDecoder(rr.Body).Decode(&out)
	if len(out) != 2 {
		t.Fatalf("expected 2 records for plan a got %d", len(out))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/audit?end=yesterday", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}
