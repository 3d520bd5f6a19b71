// Package tracing provides OpenTelemetry tracing for validation runs and
// the HTTP API.
//
// Spans are exported over OTLP gRPC when telemetry.tracing.enabled is set;
// otherwise a noop tracer is used and span creation costs next to nothing.
//
//	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "workspace.validate")
//	defer span.End()
//
// Incoming requests continue the caller's trace through W3C Trace Context
// headers (traceparent, tracestate), see Tracer.Middleware.
//
// # Sampling
//
// Three strategies are supported, each wrapped in ParentBased:
//   - always: sample every trace
//   - never: sample nothing
//   - ratio: sample a fraction of traces by trace ID (default 0.1)
package tracing
