package audit

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/mealplan/core/events"
	"github.com/kilianp07/mealplan/internal/eventbus"
)

var base = time.Date(2030, 12, 25, 12, 0, 0, 0, time.UTC)

func sample() []events.PlanEvent {
	return []events.PlanEvent{
		{Action: events.ActionGenerated, PlanID: "p1", Tasks: 4, Time: base},
		{Action: events.ActionSaved, PlanID: "p1", Name: "Christmas", Time: base.Add(time.Minute)},
		{Action: events.ActionRejected, Reason: "invalid_reference", Time: base.Add(2 * time.Minute)},
		{Action: events.ActionDeleted, PlanID: "p1", Time: base.Add(3 * time.Minute)},
	}
}

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, ev := range sample() {
		require.NoError(t, s.Append(ctx, ev))
	}

	all, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, events.ActionGenerated, all[0].Action)
	assert.Equal(t, "Christmas", all[1].Name)

	window, err := s.Query(ctx, Query{Start: base.Add(time.Minute), End: base.Add(2 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, events.ActionSaved, window[0].Action)
	assert.Equal(t, events.ActionRejected, window[1].Action)

	forPlan, err := s.Query(ctx, Query{PlanID: "p1", Action: events.ActionDeleted})
	require.NoError(t, err)
	require.Len(t, forPlan, 1)
	assert.True(t, forPlan[0].Time.Equal(base.Add(3*time.Minute)))
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "audit", "plans.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plans.jsonl")
	s, err := NewRotatingJSONLStore(path, 1, 3, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	// ~1.2MB of events forces at least one rotation at 1MB.
	name := strings.Repeat("x", 1000)
	for i := 0; i < 1200; i++ {
		require.NoError(t, s.Append(context.Background(), events.PlanEvent{Action: events.ActionGenerated, Name: name, Time: base}))
	}
	files, _ := filepath.Glob(filepath.Join(dir, "plans*.jsonl"))
	assert.GreaterOrEqual(t, len(files), 2, "expected rotated files")

	out, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, out, 1200, "query reads rotated files too")
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Config{Backend: "sqlite", Path: filepath.Join(dir, "a.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	_ = s.Close()

	s, err = Open(Config{Path: filepath.Join(dir, "a.jsonl")})
	require.NoError(t, err)
	assert.IsType(t, &RotatingJSONLStore{}, s)
	_ = s.Close()

	_, err = Open(Config{Backend: "csv"})
	assert.Error(t, err)
}

func TestRecordFromBus(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	bus := eventbus.New[events.PlanEvent]()
	sub := bus.Subscribe()
	// Published before the loop starts: the subscription buffers it.
	bus.Publish(events.PlanEvent{Action: events.ActionSaved, PlanID: "p2", Time: base})
	done := make(chan struct{})
	go func() {
		Record(context.Background(), sub, bus, s, nil)
		close(done)
	}()

	require.Eventually(t, func() bool {
		out, err := s.Query(context.Background(), Query{PlanID: "p2"})
		return err == nil && len(out) == 1
	}, time.Second, 10*time.Millisecond)

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record did not stop after bus close")
	}
}
