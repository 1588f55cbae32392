package apm

import (
	"context"
	"errors"
	"testing"

	"github.com/fd1az/multichain-arb/internal/logger"
)

func TestNewTraceProvider_Empty(t *testing.T) {
	tp, err := NewTraceProvider(context.Background(), logger.NewNop(), WithProvider(EmptyProvider))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tp.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
}

func TestNewTraceProvider_Unknown(t *testing.T) {
	_, err := NewTraceProvider(context.Background(), logger.NewNop(), WithProvider("jaeger-thrift"))
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestTracer_NoopSpan(t *testing.T) {
	tr := NewTracer("test")
	ctx, span := tr.StartSpanFromContext(context.Background(), "cycle")
	span.NoticeError(errors.New("boom"))
	span.End()

	if tr.SpanFromContext(ctx) == nil {
		t.Error("expected span wrapper from context")
	}
}
