package planner

import (
	"time"

	"github.com/kilianp07/mealplan/core/model"
)

// fallbackWorker receives a task when every worker is busy.
const fallbackWorker = 1

type interval struct {
	start  time.Time
	end    time.Time
	taskID string
}

func (iv interval) overlaps(start, end time.Time) bool {
	return start.Before(iv.end) && end.After(iv.start)
}

// Assignment describes what the assigner observed while setting workers.
type Assignment struct {
	// Conflicts lists tasks whose appliance was already booked for an
	// overlapping interval.
	Conflicts []model.ApplianceConflict
	// Fallbacks holds the IDs of tasks given to worker 1 because no worker
	// was free.
	Fallbacks []string
}

// Assigner keeps the running per-appliance and per-worker schedules.
type Assigner struct {
	workers    int
	appliances map[string][]interval
	schedule   map[int][]interval
}

// NewAssigner returns an assigner for the given number of workers.
func NewAssigner(workers int) *Assigner {
	return &Assigner{
		workers:    workers,
		appliances: make(map[string][]interval),
		schedule:   make(map[int][]interval, workers),
	}
}

// Assign sets the Worker field of each task, in order. Tasks must already be
// sorted with SortTasks. Assign never fails: when no worker is free the task
// goes to worker 1 and is reported in Assignment.Fallbacks.
func (a *Assigner) Assign(tasks []model.Task) Assignment {
	var out Assignment
	for i := range tasks {
		t := &tasks[i]
		if c, ok := a.applianceConflict(*t); ok {
			out.Conflicts = append(out.Conflicts, c)
		}
		w, free := a.pick(t.Start, t.End)
		if !free {
			out.Fallbacks = append(out.Fallbacks, t.ID)
		}
		t.Worker = w
		iv := interval{start: t.Start, end: t.End, taskID: t.ID}
		a.schedule[w] = append(a.schedule[w], iv)
		if t.Appliance != "" {
			a.appliances[t.Appliance] = append(a.appliances[t.Appliance], iv)
		}
	}
	return out
}

// applianceConflict collects earlier bookings of the task's appliance that
// overlap it. Tasks without an appliance never conflict.
func (a *Assigner) applianceConflict(t model.Task) (model.ApplianceConflict, bool) {
	if t.Appliance == "" {
		return model.ApplianceConflict{}, false
	}
	var ids []string
	for _, iv := range a.appliances[t.Appliance] {
		if iv.overlaps(t.Start, t.End) {
			ids = append(ids, iv.taskID)
		}
	}
	if len(ids) == 0 {
		return model.ApplianceConflict{}, false
	}
	return model.ApplianceConflict{Appliance: t.Appliance, TaskID: t.ID, ConflictsWith: ids}, true
}

// pick returns the first worker with no overlapping task. A single worker
// always takes the task.
func (a *Assigner) pick(start, end time.Time) (int, bool) {
	if a.workers == 1 {
		return 1, true
	}
	for w := 1; w <= a.workers; w++ {
		if a.free(w, start, end) {
			return w, true
		}
	}
	return fallbackWorker, false
}

func (a *Assigner) free(worker int, start, end time.Time) bool {
	for _, iv := range a.schedule[worker] {
		if iv.overlaps(start, end) {
			return false
		}
	}
	return true
}

// AssignWorkers is a convenience wrapper running a fresh Assigner over tasks.
func AssignWorkers(tasks []model.Task, workers int) Assignment {
	return NewAssigner(workers).Assign(tasks)
}
