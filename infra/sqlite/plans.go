package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/mealplan/core/model"
	"github.com/kilianp07/mealplan/core/store"
)

const planSchema = `
CREATE TABLE IF NOT EXISTS saved_plans (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    request TEXT NOT NULL,
    plan TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS saved_plans_created_at ON saved_plans (created_at);`

// PlanStore implements store.PlanStore on SQLite. Requests and plans are
// kept as JSON documents.
type PlanStore struct {
	db *sql.DB
}

var _ store.PlanStore = (*PlanStore)(nil)

// NewPlanStore opens or creates the database at path.
func NewPlanStore(path string) (*PlanStore, error) {
	db, err := open(path, planSchema)
	if err != nil {
		return nil, err
	}
	return &PlanStore{db: db}, nil
}

// Save inserts p or replaces the plan with the same id.
func (s *PlanStore) Save(ctx context.Context, p model.SavedPlan) error {
	if p.ID == "" {
		return fmt.Errorf("saved plan requires an id")
	}
	req, err := json.Marshal(p.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	plan, err := json.Marshal(p.Plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO saved_plans (id, name, description, created_at, request, plan) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.CreatedAt.UnixNano(), string(req), string(plan))
	return err
}

const planColumns = `id, name, description, created_at, request, plan`

func scanPlan(row interface{ Scan(...any) error }) (model.SavedPlan, error) {
	var (
		p         model.SavedPlan
		created   int64
		req, plan string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &created, &req, &plan); err != nil {
		return p, err
	}
	p.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal([]byte(req), &p.Request); err != nil {
		return p, fmt.Errorf("decode request of %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(plan), &p.Plan); err != nil {
		return p, fmt.Errorf("decode plan %s: %w", p.ID, err)
	}
	return p, nil
}

func (s *PlanStore) Get(ctx context.Context, id string) (model.SavedPlan, error) {
	p, err := scanPlan(s.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM saved_plans WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.SavedPlan{}, store.ErrNotFound
	}
	return p, err
}

// List returns saved plans, newest first.
func (s *PlanStore) List(ctx context.Context) ([]model.SavedPlan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+planColumns+` FROM saved_plans ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []model.SavedPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PlanStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *PlanStore) Close() error { return s.db.Close() }
