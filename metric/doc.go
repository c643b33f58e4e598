// Package metric provides Prometheus instrumentation for the entity layer.
//
// Metrics are optional: the entity store takes a *Metrics through a context
// option and records nothing when none is supplied. All metrics live under
// the "romanticweb" namespace:
//
//   - romanticweb_store_entity_loads_total
//   - romanticweb_store_load_duration_seconds
//   - romanticweb_store_commits_total{status="success|failure"}
//   - romanticweb_store_commit_duration_seconds
//   - romanticweb_store_staged_quads
//   - romanticweb_store_tracked_entities
//   - romanticweb_transform_conversion_errors_total
//
// Registration is explicit; nothing touches the default registry:
//
//	m := metric.NewMetrics()
//	if err := m.Register(prometheus.NewRegistry()); err != nil {
//	    // duplicate registration or collector error
//	}
package metric
