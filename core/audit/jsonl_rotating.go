package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kilianp07/mealplan/core/events"
)

// RotatingJSONLStore stores events in a JSONL file with automatic rotation.
type RotatingJSONLStore struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string
}

// NewRotatingJSONLStore creates a store with rotation options in megabytes and days.
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*RotatingJSONLStore, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false,
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &RotatingJSONLStore{logger: lj, path: path}, nil
}

// Append writes the event and triggers rotation if needed.
func (s *RotatingJSONLStore) Append(_ context.Context, ev events.PlanEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.NewEncoder(s.logger).Encode(ev)
}

// Query reads the current and rotated files, oldest event first.
// Unreadable lines are skipped.
func (s *RotatingJSONLStore) Query(ctx context.Context, q Query) ([]events.PlanEvent, error) {
	files, err := filepath.Glob(s.pattern())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []events.PlanEvent
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, err := os.Open(f)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var ev events.PlanEvent
			if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
				continue
			}
			if q.match(ev) {
				res = append(res, ev)
			}
		}
		_ = file.Close()
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Time.Before(res[j].Time) })
	return res, nil
}

// pattern matches the live file and lumberjack backups, which are named
// <name>-<timestamp><ext> in the same directory.
func (s *RotatingJSONLStore) pattern() string {
	ext := filepath.Ext(s.path)
	base := s.path[:len(s.path)-len(ext)]
	return base + "*" + ext
}

// Close closes the underlying writer.
func (s *RotatingJSONLStore) Close() error {
	return s.logger.Close()
}
