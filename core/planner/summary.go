package planner

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/mealplan/core/model"
)

// Summarize computes per-worker load for assigned tasks. Workers without
// tasks are listed with zero load.
func Summarize(tasks []model.Task, workers int, fallbacks int) model.Summary {
	byWorker := make(map[int][]model.Task, workers)
	for _, t := range tasks {
		byWorker[t.Worker] = append(byWorker[t.Worker], t)
	}
	s := model.Summary{FallbackTasks: fallbacks}
	busy := make([]float64, 0, workers)
	for w := 1; w <= workers; w++ {
		own := byWorker[w]
		load := model.WorkerLoad{Worker: w, Tasks: len(own)}
		for _, t := range own {
			load.BusyMinutes += t.DurationMinutes
		}
		load.OverlapMinutes = load.BusyMinutes - coveredMinutes(own)
		if load.Tasks == 0 {
			s.IdleWorkers++
		}
		s.Workers = append(s.Workers, load)
		busy = append(busy, float64(load.BusyMinutes))
	}
	if len(busy) > 0 {
		s.MeanBusy = stat.Mean(busy, nil)
		s.StdDevBusy = math.Sqrt(stat.Moment(2, busy, nil))
	}
	return s
}

// coveredMinutes returns the length of the union of the task intervals.
func coveredMinutes(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var total time.Duration
	start, end := sorted[0].Start, sorted[0].End
	for _, t := range sorted[1:] {
		if t.Start.After(end) {
			total += end.Sub(start)
			start, end = t.Start, t.End
			continue
		}
		if t.End.After(end) {
			end = t.End
		}
	}
	total += end.Sub(start)
	return int(total / time.Minute)
}
