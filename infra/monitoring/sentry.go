// Package monitoring reports unexpected errors and panics to Sentry.
package monitoring

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	coremon "github.com/kilianp07/mealplan/core/monitoring"
)

// Config defines settings for Sentry error monitoring. An empty DSN disables it.
type Config struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
	// ServerName defaults to the host name.
	ServerName string `json:"server_name"`
}

// Validate checks the sample rate.
func (c Config) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return fmt.Errorf("traces_sample_rate must be between 0 and 1")
	}
	return nil
}

// NewSentryMonitor initialises a Sentry client and returns a Monitor bound to
// its hub. Every event is tagged with service=mealplan.
func NewSentryMonitor(cfg Config) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
		ServerName:       cfg.ServerName,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	hub := sentry.CurrentHub()
	hub.BindClient(client)
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("service", "mealplan")
	})
	return &hubMonitor{hub: hub}, nil
}

type hubMonitor struct {
	hub *sentry.Hub
}

// CaptureException sends err with tags such as module, plan_id or path.
func (m *hubMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	m.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		m.hub.CaptureException(err)
	})
}

// Recover reports a panic, flushes and re-panics. It must be deferred.
func (m *hubMonitor) Recover() {
	r := recover()
	if r == nil {
		return
	}
	m.hub.Recover(r)
	m.hub.Flush(2 * time.Second)
	panic(r)
}

func (m *hubMonitor) Flush(timeout time.Duration) { m.hub.Flush(timeout) }
