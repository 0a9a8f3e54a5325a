// Package metrics implements driven.MetricsRecorder with Prometheus.
package metrics
