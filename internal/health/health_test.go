package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fd1az/multichain-arb/internal/logger"
)

func TestHealth_Degraded(t *testing.T) {
	s := NewServer(0, "v1.2.3", logger.NewNop())
	s.RegisterCheck("sources", func(context.Context) (bool, string) { return true, "14/21 sources ok" })
	s.RegisterCheck("last_cycle", func(context.Context) (bool, string) { return false, "no cycle in 15s" })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "degraded" || status.Version != "v1.2.3" {
		t.Errorf("unexpected status: %+v", status)
	}
	if !status.Checks["sources"].Healthy || status.Checks["last_cycle"].Healthy {
		t.Errorf("unexpected checks: %+v", status.Checks)
	}
}

func TestHealth_ReadyAndLive(t *testing.T) {
	s := NewServer(0, "", logger.NewNop())
	s.RegisterCheck("ok", func(context.Context) (bool, string) { return true, "" })

	for _, path := range []string{"/ready", "/live"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
