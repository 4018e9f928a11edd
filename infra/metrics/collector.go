package metrics

import (
	"context"

	"github.com/kilianp07/mealplan/core/events"
	coremetrics "github.com/kilianp07/mealplan/core/metrics"
	"github.com/kilianp07/mealplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records saved and
// deleted plans on sinks implementing LifecycleRecorder. Generated and
// rejected plans are recorded by the planner itself. It stops when the
// context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.PlanEvent], sink coremetrics.PlanSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.LifecycleRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch ev.Action {
				case events.ActionSaved, events.ActionDeleted:
					_ = rec.RecordLifecycle(coremetrics.LifecycleEvent{
						Action: string(ev.Action),
						PlanID: ev.PlanID,
						Time:   ev.Time,
					})
				}
			}
		}
	}()
}
