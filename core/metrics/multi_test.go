package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordSink struct {
	plans      int
	rejections int
	err        error
}

func (r *recordSink) RecordPlan(PlanEvent) error {
	r.plans++
	return r.err
}

func (r *recordSink) RecordRejection(RejectionEvent) error {
	r.rejections++
	return nil
}

type planOnlySink struct{ plans int }

func (p *planOnlySink) RecordPlan(PlanEvent) error {
	p.plans++
	return nil
}

func TestMultiSinkForwards(t *testing.T) {
	s1 := &recordSink{}
	s2 := &planOnlySink{}
	m := NewMultiSink(s1, s2)
	assert.NoError(t, m.RecordPlan(PlanEvent{PlanID: "p"}))
	assert.NoError(t, m.RecordRejection(RejectionEvent{Reason: "degenerate_input"}))
	assert.Equal(t, 1, s1.plans)
	assert.Equal(t, 1, s1.rejections)
	assert.Equal(t, 1, s2.plans)
}

func TestMultiSinkKeepsGoingOnError(t *testing.T) {
	failing := &recordSink{err: errors.New("down")}
	ok := &recordSink{}
	m := NewMultiSink(failing, ok)
	err := m.RecordPlan(PlanEvent{})
	assert.EqualError(t, err, "down")
	assert.Equal(t, 1, ok.plans, "later sinks still receive the event")
}
