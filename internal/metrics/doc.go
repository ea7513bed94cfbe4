// Package metrics defines the Prometheus instrumentation for the photo
// picker: attachment conversions, thumbnail cache behavior, library change
// notifications, index runs, and the HTTP demo surface.
//
// Metrics are registered with the default registry via promauto at package
// init; main exposes them on /metrics.
package metrics
