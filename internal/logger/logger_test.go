package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "test-svc", nil)

	ctx := context.Background()
	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message", "source", "coinbase")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if entry["msg"] != "warn message" {
		t.Errorf("expected msg 'warn message', got %v", entry["msg"])
	}
	if entry["service"] != "test-svc" {
		t.Errorf("expected service 'test-svc', got %v", entry["service"])
	}
	if entry["source"] != "coinbase" {
		t.Errorf("expected source attr, got %v", entry["source"])
	}
}

func TestLogger_EventsForWarnAndAbove(t *testing.T) {
	var got []Record
	log := New(&bytes.Buffer{}, LevelDebug, "svc", func(_ context.Context, r Record) {
		got = append(got, r)
	})

	ctx := context.Background()
	log.Info(ctx, "ignored")
	log.Warn(ctx, "slow rpc")
	log.Error(ctx, "feed failed")

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Message != "slow rpc" || got[1].Level != "ERROR" {
		t.Errorf("unexpected events: %+v", got)
	}
}

func TestLogger_Nop(t *testing.T) {
	log := NewNop()
	log.Error(context.Background(), "nothing happens")
}
