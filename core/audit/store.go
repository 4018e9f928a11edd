// Package audit keeps a queryable record of plan lifecycle events. Records
// are written by a bus subscriber to a rotating JSONL file or a SQLite table.
package audit

import (
	"context"
	"time"

	"github.com/kilianp07/mealplan/core/events"
)

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start  time.Time
	End    time.Time
	PlanID string
	Action events.Action
}

func (q Query) match(ev events.PlanEvent) bool {
	if !q.Start.IsZero() && ev.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && ev.Time.After(q.End) {
		return false
	}
	if q.PlanID != "" && ev.PlanID != q.PlanID {
		return false
	}
	if q.Action != "" && ev.Action != q.Action {
		return false
	}
	return true
}

// Store persists plan events and supports querying.
type Store interface {
	Append(ctx context.Context, ev events.PlanEvent) error
	Query(ctx context.Context, q Query) ([]events.PlanEvent, error)
	Close() error
}
