/*
Package observability exposes engine activity as Prometheus metrics.

Metrics are fed through domain.LifecycleHooks, so any engine can be instrumented
without changes:

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	eng, err := pageflow.New(pageflow.WithLifecycleHooks(metrics.Hooks()))

	http.Handle("/metrics", metrics.Handler())
*/
package observability
