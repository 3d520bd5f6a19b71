// Package health provides liveness, readiness and version endpoints for the
// masolint HTTP server.
//
// Components register readiness checks by name:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("history", store.Ping)
//
// Liveness always reports "ok" while the process runs. Readiness runs every
// check concurrently, each bounded by the checker's timeout, and reports
// "degraded" with 503 when any check fails.
package health
