// Package export renders plans for download: JSON, one CSV row per task in
// schedule order or grouped by worker, and an HTML Gantt chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/mealplan/core/model"
)

// Format names an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
	// FormatWorkers is CSV with each worker's tasks listed together.
	FormatWorkers Format = "workers"
)

// ParseFormat accepts json, csv, workers or html, case-insensitively. An empty string
// selects JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatWorkers, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV, FormatWorkers:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json"
	}
}

// Extension returns the file name extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatCSV, FormatWorkers:
		return "csv"
	case FormatHTML:
		return "html"
	default:
		return "json"
	}
}

// Write renders plan in format f.
func Write(w io.Writer, f Format, plan *model.Plan) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, plan)
	case FormatWorkers:
		return WriteWorkerCSV(w, plan)
	case FormatHTML:
		return WriteGanttHTML(w, plan)
	default:
		return WriteJSON(w, plan)
	}
}

// WriteJSON writes the plan to w as indented JSON.
func WriteJSON(w io.Writer, plan *model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

var csvHeader = []string{"task_id", "dish", "phase", "appliance", "worker", "start_time", "end_time", "duration_minutes"}

// WriteCSV writes one row per task, in schedule order.
func WriteCSV(w io.Writer, plan *model.Plan) error {
	return writeRows(w, plan.Tasks)
}

// WriteWorkerCSV writes the same rows as WriteCSV, grouped by worker from 1
// to plan.Workers, each worker's tasks in chronological order.
func WriteWorkerCSV(w io.Writer, plan *model.Plan) error {
	tasks := make([]model.Task, 0, len(plan.Tasks))
	for worker := 1; worker <= plan.Workers; worker++ {
		tasks = append(tasks, plan.WorkerTasks(worker)...)
	}
	return writeRows(w, tasks)
}

func writeRows(w io.Writer, tasks []model.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		rec := []string{
			t.ID,
			t.Dish,
			t.Phase,
			t.Appliance,
			strconv.Itoa(t.Worker),
			t.Start.Format(time.RFC3339),
			t.End.Format(time.RFC3339),
			strconv.Itoa(t.DurationMinutes),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
