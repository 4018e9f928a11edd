package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/mealplan/core/model"
)

// BuildTasks walks each dish's phases from last to first, anchoring the last
// phase's end at serve and chaining earlier phases back to back. Tasks are
// emitted dish by dish, last phase first. newID may be nil, in which case
// random UUIDs are used.
func BuildTasks(dishes []model.Dish, serve time.Time, newID func() string) ([]model.Task, error) {
	if len(dishes) == 0 {
		return nil, fmt.Errorf("%w: no dishes", ErrDegenerateInput)
	}
	if newID == nil {
		newID = uuid.NewString
	}
	var tasks []model.Task
	for i, d := range dishes {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: dish %d (food item %d) has no name", ErrInvalidReference, i, d.FoodItemID)
		}
		if len(d.Phases) == 0 {
			return nil, fmt.Errorf("%w: dish %q has no phases", ErrDegenerateInput, d.Name)
		}
		cursor := serve
		for j := len(d.Phases) - 1; j >= 0; j-- {
			p := d.Phases[j]
			if p.PhaseName == "" {
				return nil, fmt.Errorf("%w: phase %d of %q has no name", ErrInvalidReference, j, d.Name)
			}
			if p.ApplianceID != 0 && p.ApplianceName == "" {
				return nil, fmt.Errorf("%w: appliance %d of %q has no name", ErrInvalidReference, p.ApplianceID, d.Name)
			}
			if p.DurationMinutes < 1 {
				return nil, fmt.Errorf("%w: phase %q of %q lasts %d minutes", ErrConstraintViolation, p.PhaseName, d.Name, p.DurationMinutes)
			}
			start := cursor.Add(-p.Duration())
			tasks = append(tasks, model.Task{
				ID:              newID(),
				Dish:            d.Name,
				Phase:           p.PhaseName,
				Appliance:       p.ApplianceName,
				DurationMinutes: p.DurationMinutes,
				Start:           start,
				End:             cursor,
			})
			cursor = start
		}
	}
	return tasks, nil
}
