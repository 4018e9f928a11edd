package events

import "time"

// Action names what happened to a plan.
type Action string

const (
	ActionGenerated Action = "generated"
	ActionSaved     Action = "saved"
	ActionDeleted   Action = "deleted"
	ActionRejected  Action = "rejected"
)

// PlanEvent is published for every plan lifecycle change.
type PlanEvent struct {
	Action Action    `json:"action"`
	PlanID string    `json:"plan_id,omitempty"`
	Name   string    `json:"name,omitempty"`
	Reason string    `json:"reason,omitempty"`
	Tasks  int       `json:"tasks,omitempty"`
	Time   time.Time `json:"time"`
}

// Topic returns the MQTT-style topic suffix for the event.
func (e PlanEvent) Topic() string {
	id := e.PlanID
	if id == "" {
		id = "_"
	}
	return id + "/" + string(e.Action)
}
