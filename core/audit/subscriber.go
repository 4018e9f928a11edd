package audit

import (
	"context"

	"github.com/kilianp07/mealplan/core/events"
	"github.com/kilianp07/mealplan/core/logger"
	"github.com/kilianp07/mealplan/internal/eventbus"
)

// Record appends every event received on sub to store until ctx is canceled
// or the bus is closed. sub must come from bus.Subscribe, called before any
// event of interest is published. Write failures are logged and do not stop
// the loop.
func Record(ctx context.Context, sub <-chan events.PlanEvent, bus *eventbus.Bus[events.PlanEvent], store Store, log logger.Logger) {
	if log == nil {
		log = logger.NopLogger{}
	}
	defer bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if err := store.Append(ctx, ev); err != nil {
				log.Errorf("audit append %s/%s: %v", ev.PlanID, ev.Action, err)
			}
		}
	}
}
