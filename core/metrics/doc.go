// Package metrics defines the sinks that record plan generation outcomes.
// Sinks like PromSink and InfluxSink live in infra/metrics and register
// themselves with the factory; NewPlanSink builds one sink, or a MultiSink
// when several are configured.
package metrics
