package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/mealplan/core/metrics"
)

func captureServer(bodies *[]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, strings.TrimSpace(string(data)))
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestInfluxSink_RecordPlan(t *testing.T) {
	var bodies []string
	srv := captureServer(&bodies)
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()
	ev := coremetrics.PlanEvent{
		PlanID:             "p1",
		Dishes:             2,
		Tasks:              4,
		Workers:            2,
		TotalMinutes:       60,
		Fallbacks:          0,
		ApplianceConflicts: 1,
		Elapsed:            1500 * time.Microsecond,
		Time:               now,
	}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("meal_plan").
		AddTag("plan_id", "p1").
		AddTag("component", "planner").
		AddField("dishes", 2).
		AddField("tasks", 4).
		AddField("workers", 2).
		AddField("total_minutes", 60).
		AddField("fallbacks", 0).
		AddField("appliance_conflicts", 1).
		AddField("elapsed_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(bodies) != 1 || bodies[0] != expected {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordRejection(t *testing.T) {
	var bodies []string
	srv := captureServer(&bodies)
	defer srv.Close()

	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()
	if err := sink.RecordRejection(coremetrics.RejectionEvent{Reason: "invalid_reference", Time: now}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("meal_plan_rejected").
		AddTag("reason", "invalid_reference").
		AddTag("component", "planner").
		AddField("count", 1).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(bodies) != 1 || bodies[0] != exp {
		t.Errorf("bodies: %#v", bodies)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
