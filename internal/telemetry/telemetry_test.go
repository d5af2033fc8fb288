package telemetry

import (
	"context"
	"errors"
	"testing"
)

func TestInit_None(t *testing.T) {
	for _, exporter := range []string{"", ExporterNone} {
		shutdown, err := Init(context.Background(), Config{Exporter: exporter})
		if err != nil {
			t.Fatalf("Init(%q) error: %v", exporter, err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("shutdown error: %v", err)
		}
	}
}

func TestInit_Stdout(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{
		ServiceName:    "sample-graph-api",
		ServiceVersion: "test",
		Exporter:       ExporterStdout,
	})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown error: %v", err)
	}
}

func TestInit_Unknown(t *testing.T) {
	_, err := Init(context.Background(), Config{Exporter: "zipkin"})
	if !errors.Is(err, ErrUnknownExporter) {
		t.Fatalf("expected ErrUnknownExporter, got %v", err)
	}
}
