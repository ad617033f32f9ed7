/*
Package observability provides tools for monitoring a Thicket search run.

It includes the run-scoped search Statistics (counters, f-value jump tracking
and checkpoint lines), a Prometheus Collector that exports finished runs, and
an OpenTelemetry tracer shared by the engine and the adapters.
*/
package observability
