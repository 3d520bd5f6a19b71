// Package logging builds structured loggers on log/slog.
//
// Loggers are plain *slog.Logger values, so components accept a
// *slog.Logger and fall back to slog.Default() when given nil.
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//	    return err
//	}
//	logger.InfoContext(ctx, "document validated", "errors", 2)
//
// Records logged through the *Context methods carry the request ID and
// document URI stored with WithRequestID and WithDocument, plus the trace
// and span IDs of an active OpenTelemetry span.
//
// Credentials never reach the output: attributes named token, password,
// secret and similar are masked, as are bearer tokens and passwords
// embedded in repository URLs.
package logging
