// Package infra contains technical adapters: the zerolog logger, Prometheus
// and InfluxDB sinks, the MQTT plan notifier, Sentry and SQLite stores. They
// implement interfaces declared under core.
package infra
