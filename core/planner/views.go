package planner

import (
	"time"

	"github.com/kilianp07/mealplan/core/model"
)

// BuildTimeline groups sorted tasks into buckets of tasks starting in the same
// minute. A bucket's time is the start of its first task.
func BuildTimeline(tasks []model.Task) []model.TimelineBucket {
	var out []model.TimelineBucket
	var current time.Time
	for _, t := range tasks {
		minute := t.Start.Truncate(time.Minute)
		if len(out) == 0 || !minute.Equal(current) {
			current = minute
			out = append(out, model.TimelineBucket{Time: t.Start})
		}
		last := &out[len(out)-1]
		last.Tasks = append(last.Tasks, t)
	}
	return out
}

// BuildGantt groups tasks by dish in order of first appearance and computes
// each dish's bounding interval.
func BuildGantt(tasks []model.Task) []model.GanttRow {
	var rows []model.GanttRow
	index := map[string]int{}
	for _, t := range tasks {
		i, ok := index[t.Dish]
		if !ok {
			i = len(rows)
			index[t.Dish] = i
			rows = append(rows, model.GanttRow{Dish: t.Dish, Start: t.Start, End: t.End})
		}
		row := &rows[i]
		row.Tasks = append(row.Tasks, t)
		if t.Start.Before(row.Start) {
			row.Start = t.Start
		}
		if t.End.After(row.End) {
			row.End = t.End
		}
	}
	return rows
}

// TotalDuration returns the minutes between the earliest start and the latest
// end, or 0 for no tasks.
func TotalDuration(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	first, last := tasks[0].Start, tasks[0].End
	for _, t := range tasks[1:] {
		if t.Start.Before(first) {
			first = t.Start
		}
		if t.End.After(last) {
			last = t.End
		}
	}
	return int(last.Sub(first) / time.Minute)
}
