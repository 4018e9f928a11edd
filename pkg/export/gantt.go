package export

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/mealplan/core/model"
)

// WriteGanttHTML renders the plan as a horizontal stacked bar chart, one row
// per lane (see layoutGantt). Each task is preceded by a transparent gap bar
// measured from the end of the previous task in its lane.
func WriteGanttHTML(w io.Writer, plan *model.Plan) error {
	lanes := layoutGantt(plan)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Meal plan", Width: "1100px", Height: fmt.Sprintf("%dpx", 120+40*len(lanes))}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Meal plan",
			Subtitle: fmt.Sprintf("serve at %s, %d worker(s), %d min", plan.ServeTime.Format("2006-01-02 15:04"), plan.Workers, plan.TotalDurationMinutes),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "minutes from first task", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
	)

	names := make([]string, 0, len(lanes))
	depth := 0
	for _, l := range lanes {
		names = append(names, l.name)
		depth = max(depth, len(l.bars))
	}
	bar.SetXAxis(names)

	for i := 0; i < depth; i++ {
		gaps := make([]opts.BarData, 0, len(lanes))
		data := make([]opts.BarData, 0, len(lanes))
		for _, l := range lanes {
			if i >= len(l.bars) {
				gaps = append(gaps, opts.BarData{Value: 0})
				data = append(data, opts.BarData{Value: 0})
				continue
			}
			b := l.bars[i]
			gaps = append(gaps, opts.BarData{Value: b.gap, ItemStyle: &opts.ItemStyle{Color: "transparent"}})
			data = append(data, opts.BarData{Name: label(b.task), Value: b.task.DurationMinutes})
		}
		bar.AddSeries(fmt.Sprintf("gap %d", i+1), gaps, charts.WithBarChartOpts(opts.BarChart{Stack: "dish"}))
		bar.AddSeries(fmt.Sprintf("phase %d", i+1), data, charts.WithBarChartOpts(opts.BarChart{Stack: "dish"}))
	}
	bar.XYReversal()
	return bar.Render(w)
}

type ganttBar struct {
	gap  int // minutes since the previous bar in the lane ended
	task model.Task
}

type ganttLane struct {
	name string
	bars []ganttBar
}

// layoutGantt splits every Gantt row into lanes of non-overlapping tasks in
// start order. A row whose tasks never overlap stays a single lane; the
// extra lanes of a row are named "Dish (2)", "Dish (3)" and so on.
func layoutGantt(plan *model.Plan) []ganttLane {
	origin := planStart(plan)
	var out []ganttLane
	for _, row := range plan.Gantt {
		tasks := slices.Clone(row.Tasks)
		slices.SortStableFunc(tasks, func(a, b model.Task) int { return a.Start.Compare(b.Start) })

		var lanes []ganttLane
		var ends []time.Time
		for _, t := range tasks {
			i := slices.IndexFunc(ends, func(end time.Time) bool { return !t.Start.Before(end) })
			if i < 0 {
				name := row.Dish
				if len(lanes) > 0 {
					name = fmt.Sprintf("%s (%d)", row.Dish, len(lanes)+1)
				}
				lanes = append(lanes, ganttLane{name: name})
				ends = append(ends, origin)
				i = len(lanes) - 1
			}
			lanes[i].bars = append(lanes[i].bars, ganttBar{gap: minutes(t.Start.Sub(ends[i])), task: t})
			ends[i] = t.End
		}
		out = append(out, lanes...)
	}
	return out
}

func planStart(plan *model.Plan) time.Time {
	if len(plan.Gantt) == 0 {
		return plan.ServeTime
	}
	start := plan.Gantt[0].Start
	for _, row := range plan.Gantt[1:] {
		if row.Start.Before(start) {
			start = row.Start
		}
	}
	return start
}

func label(t model.Task) string {
	s := fmt.Sprintf("%s %s-%s, worker %d", t.Phase, t.Start.Format("15:04"), t.End.Format("15:04"), t.Worker)
	if t.Appliance != "" {
		s += ", " + t.Appliance
	}
	return s
}

func minutes(d time.Duration) int { return int(d / time.Minute) }
