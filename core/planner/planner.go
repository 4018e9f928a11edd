package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/logger"
	"github.com/kilianp07/mealplan/core/metrics"
	"github.com/kilianp07/mealplan/core/model"
)

// Planner generates plans. It only holds read-only collaborators, so one
// Planner may serve concurrent requests.
type Planner struct {
	cfg     Config
	catalog catalog.Reader
	log     logger.Logger
	sink    metrics.PlanSink
	newID   func() string
	now     func() time.Time
}

// Option customises a Planner.
type Option func(*Planner)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.log = l
		}
	}
}

// WithSink sets the metrics sink.
func WithSink(s metrics.PlanSink) Option {
	return func(p *Planner) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithIDGenerator replaces the UUID generator used for plan and task IDs.
func WithIDGenerator(f func() string) Option {
	return func(p *Planner) {
		if f != nil {
			p.newID = f
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Planner. Zero config values take their defaults.
func New(cfg Config, cat catalog.Reader, opts ...Option) (*Planner, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	p := &Planner{
		cfg:     cfg,
		catalog: cat,
		log:     logger.NopLogger{},
		sink:    metrics.NopSink{},
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Generate validates req, resolves it against the catalog and schedules it.
func (p *Planner) Generate(ctx context.Context, req model.PlanRequest) (*model.Plan, error) {
	started := p.now()
	dishes, err := Validate(ctx, req, p.catalog, p.cfg, started)
	if err != nil {
		p.reject(err)
		return nil, err
	}
	plan, err := p.Schedule(dishes, req.ServeTime, req.Workers)
	if err != nil {
		p.reject(err)
		return nil, err
	}
	ev := metrics.PlanEvent{
		PlanID:             plan.ID,
		Dishes:             len(dishes),
		Tasks:              len(plan.Tasks),
		Workers:            plan.Workers,
		TotalMinutes:       plan.TotalDurationMinutes,
		Fallbacks:          plan.Summary.FallbackTasks,
		ApplianceConflicts: len(plan.ApplianceConflicts),
		Elapsed:            p.now().Sub(started),
		Time:               plan.GeneratedAt,
	}
	if err := p.sink.RecordPlan(ev); err != nil {
		p.log.Warnf("record plan %s: %v", plan.ID, err)
	}
	return plan, nil
}

// Schedule runs the engine on already resolved dishes: backward build,
// stable sort, worker assignment and views.
func (p *Planner) Schedule(dishes []model.Dish, serve time.Time, workers int) (*model.Plan, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: workers must be positive", ErrConstraintViolation)
	}
	serve = serve.UTC()
	tasks, err := BuildTasks(dishes, serve, p.newID)
	if err != nil {
		return nil, err
	}
	SortTasks(tasks)
	asg := AssignWorkers(tasks, workers)

	plan := &model.Plan{
		ID:                   p.newID(),
		ServeTime:            serve,
		Workers:              workers,
		TotalDurationMinutes: TotalDuration(tasks),
		Tasks:                tasks,
		Timeline:             BuildTimeline(tasks),
		Gantt:                BuildGantt(tasks),
		Summary:              Summarize(tasks, workers, len(asg.Fallbacks)),
		GeneratedAt:          p.now().UTC(),
	}
	if len(asg.Fallbacks) > 0 {
		p.log.Warnw("no free worker, tasks given to worker 1", map[string]any{
			"plan_id": plan.ID,
			"tasks":   asg.Fallbacks,
		})
	}
	if err := p.applyConflictPolicy(plan, asg.Conflicts); err != nil {
		return nil, err
	}
	p.log.Debugw("plan generated", map[string]any{
		"plan_id":       plan.ID,
		"dishes":        len(dishes),
		"tasks":         len(tasks),
		"workers":       workers,
		"total_minutes": plan.TotalDurationMinutes,
	})
	return plan, nil
}

func (p *Planner) applyConflictPolicy(plan *model.Plan, conflicts []model.ApplianceConflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	switch p.cfg.ApplianceConflicts {
	case ConflictReject:
		c := conflicts[0]
		return fmt.Errorf("%w: %s is used by task %s and %d earlier task(s)", ErrApplianceConflict, c.Appliance, c.TaskID, len(c.ConflictsWith))
	case ConflictReport:
		plan.ApplianceConflicts = conflicts
		for _, c := range conflicts {
			p.log.Warnw("appliance double-booked", map[string]any{
				"plan_id":        plan.ID,
				"appliance":      c.Appliance,
				"task_id":        c.TaskID,
				"conflicts_with": c.ConflictsWith,
			})
		}
	}
	return nil
}

func (p *Planner) reject(err error) {
	reason := Reason(err)
	p.log.Debugf("plan request rejected (%s): %v", reason, err)
	rec, ok := p.sink.(metrics.RejectionRecorder)
	if !ok {
		return
	}
	if rerr := rec.RecordRejection(metrics.RejectionEvent{Reason: reason, Time: p.now()}); rerr != nil {
		p.log.Warnf("record rejection: %v", rerr)
	}
}
