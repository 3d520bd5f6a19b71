package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"maso-hq/masolint/pkg/config"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(config.TracingConfig{Sampler: SamplerAlways, ServiceName: "test"}, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(context.Background(), config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("tracer should be disabled")
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	span.End()
	if TraceID(ctx) != "" {
		t.Error("disabled tracer should not produce a trace ID")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewWithExporter_InvalidSampler(t *testing.T) {
	_, err := NewWithExporter(config.TracingConfig{Sampler: "sometimes"}, tracetest.NewInMemoryExporter())
	if err == nil {
		t.Error("expected error for unknown sampler")
	}
}

func TestTracer_RecordsSpans(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	ctx, span := tracer.Start(context.Background(), "workspace.validate")
	SetDocumentAttributes(span, "file:///w/a.maso", "save")
	SetResultAttributes(span, "regular", 2, 1, false)
	SetStatus(span, errors.New("boom"))
	span.End()

	if TraceID(ctx) == "" {
		t.Error("TraceID() should be set inside a recorded span")
	}
	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name != "workspace.validate" {
		t.Errorf("span name = %q", got.Name)
	}
	if got.Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status.Code)
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrDocumentURI].AsString() != "file:///w/a.maso" {
		t.Errorf("uri attribute = %v", attrs[AttrDocumentURI])
	}
	if attrs[AttrErrors].AsInt64() != 2 {
		t.Errorf("errors attribute = %v", attrs[AttrErrors])
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{"", 0.1, false},
		{SamplerRatio, 1.5, true},
		{SamplerRatio, -0.1, true},
		{"random", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && sampler == nil {
				t.Error("createSampler() returned nil sampler")
			}
		})
	}
}

func TestMiddleware_ContinuesTrace(t *testing.T) {
	tracer, exporter := newRecordingTracer(t)

	handler := tracer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TraceID(r.Context()) != "4bf92f3577b34da6a3ce929d0e0e4736" {
			t.Errorf("handler trace ID = %q", TraceID(r.Context()))
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/validate", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Trace-ID") != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("X-Trace-ID = %q", rec.Header().Get("X-Trace-ID"))
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}

	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "POST /v1/validate" {
		t.Errorf("span name = %q", spans[0].Name)
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("5xx should mark the span as failed")
	}
}

func TestInjectExtract_RoundTrip(t *testing.T) {
	tracer, _ := newRecordingTracer(t)

	ctx, span := tracer.Start(context.Background(), "client")
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)
	if headers.Get("traceparent") == "" {
		t.Fatal("traceparent header not injected")
	}

	extracted := Extract(context.Background(), headers)
	if TraceID(extracted) != TraceID(ctx) {
		t.Errorf("extracted trace ID = %q, want %q", TraceID(extracted), TraceID(ctx))
	}
}
