package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/mealplan/core/metrics"
)

// PromSink records plan generation in Prometheus metrics.
type PromSink struct {
	plans      prometheus.Counter
	tasks      prometheus.Counter
	fallbacks  prometheus.Counter
	conflicts  prometheus.Counter
	rejections *prometheus.CounterVec
	lifecycle  *prometheus.CounterVec
	latency    prometheus.Histogram
	duration   prometheus.Histogram
}

// NewPromSink registers plan metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		plans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plans_generated_total",
			Help: "Total number of generated plans",
		}),
		tasks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_tasks_scheduled_total",
			Help: "Total number of tasks scheduled across all plans",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_worker_fallbacks_total",
			Help: "Tasks given to worker 1 because no worker was free",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_appliance_conflicts_total",
			Help: "Tasks booked on an appliance already in use",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plan_rejections_total",
			Help: "Plan requests refused, by reason",
		}, []string{"reason"}),
		lifecycle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plan_lifecycle_events_total",
			Help: "Saved plan changes, by action",
		}, []string{"action"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "plan_generation_seconds",
			Help:    "Time spent validating and scheduling a plan",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "plan_total_duration_minutes",
			Help:    "Minutes from the first task start to the serve time",
			Buckets: []float64{15, 30, 60, 90, 120, 180, 240, 360, 480},
		}),
	}
	var err error
	if s.plans, err = register(reg, s.plans); err != nil {
		return nil, err
	}
	if s.tasks, err = register(reg, s.tasks); err != nil {
		return nil, err
	}
	if s.fallbacks, err = register(reg, s.fallbacks); err != nil {
		return nil, err
	}
	if s.conflicts, err = register(reg, s.conflicts); err != nil {
		return nil, err
	}
	if s.rejections, err = register(reg, s.rejections); err != nil {
		return nil, err
	}
	if s.lifecycle, err = register(reg, s.lifecycle); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the existing collector when an identical
// one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlan updates counters and histograms for a generated plan.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.Inc()
	s.tasks.Add(float64(ev.Tasks))
	s.fallbacks.Add(float64(ev.Fallbacks))
	s.conflicts.Add(float64(ev.ApplianceConflicts))
	s.latency.Observe(ev.Elapsed.Seconds())
	s.duration.Observe(float64(ev.TotalMinutes))
	return nil
}

// RecordRejection counts a refused request.
func (s *PromSink) RecordRejection(ev coremetrics.RejectionEvent) error {
	s.rejections.WithLabelValues(ev.Reason).Inc()
	return nil
}

// RecordLifecycle counts saved and deleted plans.
func (s *PromSink) RecordLifecycle(ev coremetrics.LifecycleEvent) error {
	s.lifecycle.WithLabelValues(ev.Action).Inc()
	return nil
}
