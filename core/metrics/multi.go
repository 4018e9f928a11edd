package metrics

import "errors"

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []PlanSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...PlanSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the event to every sink and joins their errors.
func (m *MultiSink) RecordPlan(ev PlanEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRejection forwards the event to sinks implementing RejectionRecorder.
func (m *MultiSink) RecordRejection(ev RejectionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RejectionRecorder); ok {
			if err := rec.RecordRejection(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordLifecycle forwards the event to sinks implementing LifecycleRecorder.
func (m *MultiSink) RecordLifecycle(ev LifecycleEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(LifecycleRecorder); ok {
			if err := rec.RecordLifecycle(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that has a Close method.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
