package planner

import (
	"sort"

	"github.com/kilianp07/mealplan/core/model"
)

// SortTasks orders tasks by start time in place. The sort is stable: tasks
// starting together keep their emission order, which the assigner relies on
// for tie-breaking.
func SortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Start.Before(tasks[j].Start)
	})
}
