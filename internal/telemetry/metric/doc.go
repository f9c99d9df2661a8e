// Package metric provides Prometheus metrics for tokclaim.
//
//   - prometheus.go: application registry, instruments and /metrics handler
//
// Components with their own gauges (the claim store, the Badger backend)
// register them on Registry.Registerer().
package metric
