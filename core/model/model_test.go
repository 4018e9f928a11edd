package model

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskOverlaps(t *testing.T) {
	base := time.Date(2025, 12, 25, 14, 0, 0, 0, time.UTC)
	a := Task{Start: base, End: base.Add(30 * time.Minute)}
	b := Task{Start: base.Add(30 * time.Minute), End: base.Add(time.Hour)}
	c := Task{Start: base.Add(29 * time.Minute), End: base.Add(40 * time.Minute)}
	assert.False(t, a.Overlaps(b), "touching intervals do not overlap")
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
}

func TestTaskJSONNullAppliance(t *testing.T) {
	task := Task{ID: "t1", Dish: "Chicken", Phase: "Resting", DurationMinutes: 10}
	b, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"appliance":null`)

	task.Appliance = "Fan Oven"
	b, err = json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"appliance":"Fan Oven"`)

	var back Task
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "Fan Oven", back.Appliance)
}

func TestCatalogValidate(t *testing.T) {
	assert.ErrorIs(t, FoodItem{}.Validate(), ErrInvalidEntry)
	assert.Error(t, Appliance{Name: strings.Repeat("x", 256)}.Validate())
	assert.Error(t, CookingPhase{Name: "Boil", Description: strings.Repeat("x", 1001)}.Validate())
	assert.NoError(t, CookingPhase{Name: "Boil", ApplianceRequired: true}.Validate())
}

func TestDecodeRequestYAML(t *testing.T) {
	data := `name: Sunday roast
serve_time: 2030-12-25T18:00:00Z
workers: 2
dishes:
  - food_item_id: 1
    phases:
      - phase_id: 3
        duration_minutes: 20
      - phase_id: 5
        duration_minutes: 40
        appliance_id: 1
`
	req, err := DecodeRequest(bytes.NewBufferString(data), "yaml")
	require.NoError(t, err)
	assert.Equal(t, "Sunday roast", req.Name)
	assert.Equal(t, 2, req.Workers)
	assert.True(t, req.ServeTime.Equal(time.Date(2030, 12, 25, 18, 0, 0, 0, time.UTC)))
	require.Len(t, req.Dishes, 1)
	require.Len(t, req.Dishes[0].Phases, 2)
	assert.Nil(t, req.Dishes[0].Phases[0].ApplianceID)
	require.NotNil(t, req.Dishes[0].Phases[1].ApplianceID)
	assert.EqualValues(t, 1, *req.Dishes[0].Phases[1].ApplianceID)
}

func TestLoadRequestJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	body := `{"name":"x","serve_time":"2030-01-01T12:00:00Z","workers":1,"dishes":[{"food_item_id":2,"phases":[{"phase_id":1,"duration_minutes":5}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	req, err := LoadRequest(path)
	require.NoError(t, err)
	assert.EqualValues(t, 2, req.Dishes[0].FoodItemID)

	_, err = DecodeRequest(bytes.NewBufferString("{}"), "toml")
	assert.Error(t, err)
	_, err = DecodeRequest(bytes.NewBufferString(":"), "yaml")
	assert.Error(t, err)
}

func TestPlanWorkerTasks(t *testing.T) {
	p := Plan{Tasks: []Task{{ID: "a", Worker: 1}, {ID: "b", Worker: 2}, {ID: "c", Worker: 1}}}
	got := p.WorkerTasks(1)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Empty(t, p.WorkerTasks(3))
}
