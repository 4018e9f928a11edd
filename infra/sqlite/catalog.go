package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/model"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS food_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_default INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS cooking_phases (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_default INTEGER NOT NULL DEFAULT 0,
    appliance_required INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS appliances (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_default INTEGER NOT NULL DEFAULT 0
);`

// entry is the row shape shared by the three catalog tables.
type entry struct {
	ID                int64
	Name              string
	Description       string
	IsDefault         bool
	ApplianceRequired bool
}

type table struct {
	name   string
	kind   string
	phases bool
}

var (
	foodTable      = table{name: "food_items", kind: "food item"}
	phaseTable     = table{name: "cooking_phases", kind: "cooking phase", phases: true}
	applianceTable = table{name: "appliances", kind: "appliance"}
)

func (t table) columns() string {
	if t.phases {
		return "id, name, description, is_default, appliance_required"
	}
	return "id, name, description, is_default"
}

func (t table) scan(row interface{ Scan(...any) error }) (entry, error) {
	var e entry
	if t.phases {
		return e, row.Scan(&e.ID, &e.Name, &e.Description, &e.IsDefault, &e.ApplianceRequired)
	}
	return e, row.Scan(&e.ID, &e.Name, &e.Description, &e.IsDefault)
}

// CatalogStore implements catalog.Store on SQLite. Defaults are seeded on
// open with fixed IDs, so reopening an existing file keeps references valid.
type CatalogStore struct {
	db *sql.DB
}

var _ catalog.Store = (*CatalogStore)(nil)

// NewCatalogStore opens or creates the database at path.
func NewCatalogStore(path string) (*CatalogStore, error) {
	db, err := open(path, catalogSchema)
	if err != nil {
		return nil, err
	}
	s := &CatalogStore{db: db}
	if err := s.seed(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return s, nil
}

func (s *CatalogStore) seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, f := range catalog.DefaultFoodItems() {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO food_items (id, name, description, is_default) VALUES (?, ?, ?, 1)`,
			f.ID, f.Name, f.Description); err != nil {
			return err
		}
	}
	for _, c := range catalog.DefaultCookingPhases() {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO cooking_phases (id, name, description, is_default, appliance_required) VALUES (?, ?, ?, 1, ?)`,
			c.ID, c.Name, c.Description, c.ApplianceRequired); err != nil {
			return err
		}
	}
	for _, a := range catalog.DefaultAppliances() {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO appliances (id, name, description, is_default) VALUES (?, ?, ?, 1)`,
			a.ID, a.Name, a.Description); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *CatalogStore) get(ctx context.Context, t table, id int64) (entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+t.columns()+` FROM `+t.name+` WHERE id = ?`, id)
	e, err := t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("%s %d: %w", t.kind, id, catalog.ErrNotFound)
	}
	return e, err
}

func (s *CatalogStore) list(ctx context.Context, t table) ([]entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+t.columns()+` FROM `+t.name+` ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []entry
	for rows.Next() {
		e, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *CatalogStore) insert(ctx context.Context, t table, e entry) (entry, error) {
	var (
		res sql.Result
		err error
	)
	if t.phases {
		res, err = s.db.ExecContext(ctx, `INSERT INTO cooking_phases (name, description, is_default, appliance_required) VALUES (?, ?, 0, ?)`,
			e.Name, e.Description, e.ApplianceRequired)
	} else {
		res, err = s.db.ExecContext(ctx, `INSERT INTO `+t.name+` (name, description, is_default) VALUES (?, ?, 0)`,
			e.Name, e.Description)
	}
	if err != nil {
		return entry{}, err
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return entry{}, err
	}
	e.IsDefault = false
	return e, nil
}

func (s *CatalogStore) writable(ctx context.Context, t table, id int64) error {
	cur, err := s.get(ctx, t, id)
	if err != nil {
		return err
	}
	if cur.IsDefault {
		return fmt.Errorf("%s %d: %w", t.kind, id, catalog.ErrReadOnly)
	}
	return nil
}

func (s *CatalogStore) update(ctx context.Context, t table, e entry) (entry, error) {
	if err := s.writable(ctx, t, e.ID); err != nil {
		return entry{}, err
	}
	var err error
	if t.phases {
		_, err = s.db.ExecContext(ctx, `UPDATE cooking_phases SET name = ?, description = ?, appliance_required = ? WHERE id = ?`,
			e.Name, e.Description, e.ApplianceRequired, e.ID)
	} else {
		_, err = s.db.ExecContext(ctx, `UPDATE `+t.name+` SET name = ?, description = ? WHERE id = ?`,
			e.Name, e.Description, e.ID)
	}
	if err != nil {
		return entry{}, err
	}
	e.IsDefault = false
	return e, nil
}

func (s *CatalogStore) remove(ctx context.Context, t table, id int64) error {
	if err := s.writable(ctx, t, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM `+t.name+` WHERE id = ?`, id)
	return err
}

func foodFrom(e entry) model.FoodItem {
	return model.FoodItem{ID: e.ID, Name: e.Name, Description: e.Description, IsDefault: e.IsDefault}
}

func phaseFrom(e entry) model.CookingPhase {
	return model.CookingPhase{ID: e.ID, Name: e.Name, Description: e.Description, IsDefault: e.IsDefault, ApplianceRequired: e.ApplianceRequired}
}

func applianceFrom(e entry) model.Appliance {
	return model.Appliance{ID: e.ID, Name: e.Name, Description: e.Description, IsDefault: e.IsDefault}
}

func convert[T any](es []entry, f func(entry) T) []T {
	out := make([]T, 0, len(es))
	for _, e := range es {
		out = append(out, f(e))
	}
	return out
}

func (s *CatalogStore) FoodItem(ctx context.Context, id int64) (model.FoodItem, error) {
	e, err := s.get(ctx, foodTable, id)
	return foodFrom(e), err
}

func (s *CatalogStore) ListFoodItems(ctx context.Context) ([]model.FoodItem, error) {
	es, err := s.list(ctx, foodTable)
	if err != nil {
		return nil, err
	}
	return convert(es, foodFrom), nil
}

func (s *CatalogStore) CreateFoodItem(ctx context.Context, f model.FoodItem) (model.FoodItem, error) {
	if err := f.Validate(); err != nil {
		return model.FoodItem{}, err
	}
	e, err := s.insert(ctx, foodTable, entry{Name: f.Name, Description: f.Description})
	return foodFrom(e), err
}

func (s *CatalogStore) UpdateFoodItem(ctx context.Context, f model.FoodItem) (model.FoodItem, error) {
	if err := f.Validate(); err != nil {
		return model.FoodItem{}, err
	}
	e, err := s.update(ctx, foodTable, entry{ID: f.ID, Name: f.Name, Description: f.Description})
	return foodFrom(e), err
}

func (s *CatalogStore) DeleteFoodItem(ctx context.Context, id int64) error {
	return s.remove(ctx, foodTable, id)
}

func (s *CatalogStore) CookingPhase(ctx context.Context, id int64) (model.CookingPhase, error) {
	e, err := s.get(ctx, phaseTable, id)
	return phaseFrom(e), err
}

func (s *CatalogStore) ListCookingPhases(ctx context.Context) ([]model.CookingPhase, error) {
	es, err := s.list(ctx, phaseTable)
	if err != nil {
		return nil, err
	}
	return convert(es, phaseFrom), nil
}

func (s *CatalogStore) CreateCookingPhase(ctx context.Context, c model.CookingPhase) (model.CookingPhase, error) {
	if err := c.Validate(); err != nil {
		return model.CookingPhase{}, err
	}
	e, err := s.insert(ctx, phaseTable, entry{Name: c.Name, Description: c.Description, ApplianceRequired: c.ApplianceRequired})
	return phaseFrom(e), err
}

func (s *CatalogStore) UpdateCookingPhase(ctx context.Context, c model.CookingPhase) (model.CookingPhase, error) {
	if err := c.Validate(); err != nil {
		return model.CookingPhase{}, err
	}
	e, err := s.update(ctx, phaseTable, entry{ID: c.ID, Name: c.Name, Description: c.Description, ApplianceRequired: c.ApplianceRequired})
	return phaseFrom(e), err
}

func (s *CatalogStore) DeleteCookingPhase(ctx context.Context, id int64) error {
	return s.remove(ctx, phaseTable, id)
}

func (s *CatalogStore) Appliance(ctx context.Context, id int64) (model.Appliance, error) {
	e, err := s.get(ctx, applianceTable, id)
	return applianceFrom(e), err
}

func (s *CatalogStore) ListAppliances(ctx context.Context) ([]model.Appliance, error) {
	es, err := s.list(ctx, applianceTable)
	if err != nil {
		return nil, err
	}
	return convert(es, applianceFrom), nil
}

func (s *CatalogStore) CreateAppliance(ctx context.Context, a model.Appliance) (model.Appliance, error) {
	if err := a.Validate(); err != nil {
		return model.Appliance{}, err
	}
	e, err := s.insert(ctx, applianceTable, entry{Name: a.Name, Description: a.Description})
	return applianceFrom(e), err
}

func (s *CatalogStore) UpdateAppliance(ctx context.Context, a model.Appliance) (model.Appliance, error) {
	if err := a.Validate(); err != nil {
		return model.Appliance{}, err
	}
	e, err := s.update(ctx, applianceTable, entry{ID: a.ID, Name: a.Name, Description: a.Description})
	return applianceFrom(e), err
}

func (s *CatalogStore) DeleteAppliance(ctx context.Context, id int64) error {
	return s.remove(ctx, applianceTable, id)
}

// Close closes the underlying database.
func (s *CatalogStore) Close() error { return s.db.Close() }
