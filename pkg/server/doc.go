// Package server exposes the workspace and the validator over HTTP.
//
// Routes:
//
//	POST   /v1/validate                   validate a document body without storing it
//	PUT    /v1/documents?uri=             change trigger; stores and returns diagnostics
//	DELETE /v1/documents?uri=             close a document
//	GET    /v1/documents                  list open documents
//	GET    /v1/documents/diagnostics?uri= current diagnostics for a document
//	POST   /v1/commands/validate?uri=     manual validate command
//	GET    /v1/history                    recorded runs (when history is enabled)
//	GET    /v1/history/{id}               a single recorded run
//	GET    /healthz, /readyz, /version    probes
//
// The metrics endpoint is served at the configured path when metrics are
// enabled. Every request passes through panic recovery, tracing, request
// ID assignment and access logging.
package server
