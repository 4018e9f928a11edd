package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Warnw("warn", map[string]any{"k": 2})
	l.Errorf("error")
}

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("planner", &buf)
	l.Warnw("appliance double-booked", map[string]any{"appliance": "Fan Oven"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "planner", line["component"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "Fan Oven", line["appliance"])
	assert.Equal(t, "appliance double-booked", line["message"])
}

func TestSetGlobalLevel(t *testing.T) {
	assert.False(t, SetGlobalLevel(""))
	assert.False(t, SetGlobalLevel("loud"))
	assert.True(t, SetGlobalLevel("DEBUG"))
}
