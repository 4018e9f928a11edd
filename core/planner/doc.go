// Package planner turns dishes, their ordered cooking phases and a serve time
// into a timed task list with worker assignments.
//
// Generation runs in fixed stages: requests are validated and resolved
// against the catalog, tasks are built backwards from the serve time, sorted
// by start, assigned greedily to the first free worker and finally projected
// into timeline, Gantt and load views. Each stage is exported so callers can
// run the engine on already resolved dishes.
package planner
