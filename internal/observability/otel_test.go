package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

func TestInitOTelDisabledIsNoop(t *testing.T) {
	before := otel.GetTracerProvider()
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: err=%v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Fatalf("disabled tracing must not replace the tracer provider")
	}
}

func TestInitOTelInstallsProvider(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: err=%v", err)
	}
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown := InitOTel(context.Background(), log, OtelConfig{Enabled: true, SampleRatio: 1})
	_, span := otel.Tracer("test").Start(context.Background(), "import")
	if !span.SpanContext().IsValid() {
		t.Fatalf("expected a recording span")
	}
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: err=%v", err)
	}
}

func TestSampleRatioIsClamped(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0.25: 0.25, 3: 1} {
		if got := (OtelConfig{SampleRatio: in}).ratio(); got != want {
			t.Errorf("ratio(%v) = %v, want %v", in, got, want)
		}
	}
}
