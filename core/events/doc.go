// Package events defines the plan lifecycle events emitted on the event bus.
//
// Available actions:
//   - generated: a plan was produced
//   - saved: a plan was persisted
//   - deleted: a saved plan was removed
//   - rejected: a plan request failed validation or policy
package events
