package model

import "time"

// TimelineBucket groups tasks starting in the same minute.
type TimelineBucket struct {
	Time  time.Time `json:"time"`
	Tasks []Task    `json:"tasks"`
}

// GanttRow holds all tasks of one dish and their bounding interval.
type GanttRow struct {
	Dish  string    `json:"dish"`
	Tasks []Task    `json:"tasks"`
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// ApplianceConflict lists the earlier tasks sharing an appliance with an
// overlapping task.
type ApplianceConflict struct {
	Appliance     string   `json:"appliance"`
	TaskID        string   `json:"task_id"`
	ConflictsWith []string `json:"conflicts_with"`
}

// WorkerLoad summarises the work assigned to one worker.
type WorkerLoad struct {
	Worker      int `json:"worker"`
	Tasks       int `json:"tasks"`
	BusyMinutes int `json:"busy_minutes"`
	// OverlapMinutes counts minutes where the worker holds more than one task.
	OverlapMinutes int `json:"overlap_minutes"`
}

// Summary aggregates worker load over a plan.
type Summary struct {
	Workers       []WorkerLoad `json:"workers"`
	MeanBusy      float64      `json:"mean_busy_minutes"`
	StdDevBusy    float64      `json:"stddev_busy_minutes"`
	IdleWorkers   int          `json:"idle_workers"`
	FallbackTasks int          `json:"fallback_tasks"`
}

// Plan is the result of plan generation. The caller owns it once returned.
type Plan struct {
	ID                   string              `json:"id"`
	ServeTime            time.Time           `json:"serve_time"`
	Workers              int                 `json:"workers"`
	TotalDurationMinutes int                 `json:"total_duration_minutes"`
	Tasks                []Task              `json:"tasks"`
	Timeline             []TimelineBucket    `json:"timeline"`
	Gantt                []GanttRow          `json:"gantt"`
	Summary              Summary             `json:"summary"`
	ApplianceConflicts   []ApplianceConflict `json:"appliance_conflicts,omitempty"`
	GeneratedAt          time.Time           `json:"generated_at"`
}

// WorkerTasks returns the tasks assigned to worker in chronological order.
func (p *Plan) WorkerTasks(worker int) []Task {
	var out []Task
	for _, t := range p.Tasks {
		if t.Worker == worker {
			out = append(out, t)
		}
	}
	return out
}

// SavedPlan is a stored plan together with the request that produced it.
type SavedPlan struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	Request     PlanRequest `json:"request"`
	Plan        Plan        `json:"plan"`
}
