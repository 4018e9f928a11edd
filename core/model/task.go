package model

import (
	"encoding/json"
	"time"
)

// Task is a time-bound instance of a phase for one dish.
// Worker is zero until the task has been assigned.
type Task struct {
	ID              string
	Dish            string
	Phase           string
	Appliance       string
	DurationMinutes int
	Start           time.Time
	End             time.Time
	Worker          int
}

// Overlaps reports whether the half-open intervals of both tasks intersect.
func (t Task) Overlaps(o Task) bool {
	return t.Start.Before(o.End) && t.End.After(o.Start)
}

type taskJSON struct {
	ID              string    `json:"id"`
	Dish            string    `json:"dish"`
	Phase           string    `json:"phase"`
	Appliance       *string   `json:"appliance"`
	DurationMinutes int       `json:"duration_minutes"`
	Start           time.Time `json:"start_time"`
	End             time.Time `json:"end_time"`
	Worker          int       `json:"worker"`
}

// MarshalJSON encodes a missing appliance as null.
func (t Task) MarshalJSON() ([]byte, error) {
	out := taskJSON{
		ID:              t.ID,
		Dish:            t.Dish,
		Phase:           t.Phase,
		DurationMinutes: t.DurationMinutes,
		Start:           t.Start,
		End:             t.End,
		Worker:          t.Worker,
	}
	if t.Appliance != "" {
		a := t.Appliance
		out.Appliance = &a
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Task) UnmarshalJSON(b []byte) error {
	var in taskJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*t = Task{
		ID:              in.ID,
		Dish:            in.Dish,
		Phase:           in.Phase,
		DurationMinutes: in.DurationMinutes,
		Start:           in.Start,
		End:             in.End,
		Worker:          in.Worker,
	}
	if in.Appliance != nil {
		t.Appliance = *in.Appliance
	}
	return nil
}
