package command

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestSystemStatus(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /admin/v1/status/summary", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{
			"build":          map[string]string{"version": "v1.2.3", "commit": "abc1234"},
			"backend":        "badger",
			"allowed":        10,
			"claimed":        4,
			"started_at":     time.Now().Add(-90 * time.Second),
			"uptime_seconds": 90,
		})
	})

	out, _, err := runApp(t, server, "", "sys", "status")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"v1.2.3", "abc1234", "badger", "Allowed  10", "Claimed  4", "1m30s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSystemHealth(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy", "time": "2026-01-01T00:00:00Z"})
	})

	out, _, err := runApp(t, server, "", "system", "health")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, server.URL) || !strings.Contains(out, "healthy") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSystemHealth_Unreachable(t *testing.T) {
	_, _, err := runApp(t, nil, "", "--server", "127.0.0.1:1", "system", "health")
	if err == nil || !strings.Contains(err.Error(), "server unhealthy") {
		t.Fatalf("err = %v, want unhealthy error", err)
	}
}
