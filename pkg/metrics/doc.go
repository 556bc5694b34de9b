// Package metrics exposes Prometheus gauges, counters, and histograms for
// the registries, the notifier, and inbound RPC handling, served over
// /metrics by promhttp.
package metrics
