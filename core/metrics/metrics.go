package metrics

import "time"

// PlanEvent describes one generated plan.
type PlanEvent struct {
	PlanID             string
	Dishes             int
	Tasks              int
	Workers            int
	TotalMinutes       int
	Fallbacks          int
	ApplianceConflicts int
	Elapsed            time.Duration // time spent generating the plan
	Time               time.Time
}

// PlanSink records generated plans for observability purposes.
type PlanSink interface {
	RecordPlan(ev PlanEvent) error
}

// RejectionEvent describes a request refused before scheduling.
type RejectionEvent struct {
	// Reason is a short machine-friendly label, e.g. "invalid_reference".
	Reason string
	Time   time.Time
}

// RejectionRecorder is implemented by sinks able to count rejected requests.
type RejectionRecorder interface {
	RecordRejection(ev RejectionEvent) error
}

// LifecycleEvent describes a plan being saved or deleted.
type LifecycleEvent struct {
	Action string
	PlanID string
	Time   time.Time
}

// LifecycleRecorder is implemented by sinks counting saved and deleted plans.
type LifecycleRecorder interface {
	RecordLifecycle(ev LifecycleEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error           { return nil }
func (NopSink) RecordRejection(RejectionEvent) error { return nil }
func (NopSink) RecordLifecycle(LifecycleEvent) error { return nil }
