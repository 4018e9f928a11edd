package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/mealplan/core/events"
	coremetrics "github.com/kilianp07/mealplan/core/metrics"
	"github.com/kilianp07/mealplan/internal/eventbus"
)

type lifecycleSink struct {
	coremetrics.NopSink
	mu      sync.Mutex
	actions []string
}

func (s *lifecycleSink) RecordLifecycle(ev coremetrics.LifecycleEvent) error {
	s.mu.Lock()
	s.actions = append(s.actions, ev.Action)
	s.mu.Unlock()
	return nil
}

func (s *lifecycleSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actions)
}

func TestStartEventCollector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := eventbus.New[events.PlanEvent]()
	sink := &lifecycleSink{}
	StartEventCollector(ctx, bus, sink)

	bus.Publish(events.PlanEvent{Action: events.ActionGenerated, PlanID: "p"})
	bus.Publish(events.PlanEvent{Action: events.ActionSaved, PlanID: "p"})
	bus.Publish(events.PlanEvent{Action: events.ActionDeleted, PlanID: "p"})

	deadline := time.Now().Add(time.Second)
	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.actions) != 2 || sink.actions[0] != "saved" || sink.actions[1] != "deleted" {
		t.Fatalf("unexpected actions %v", sink.actions)
	}
}
