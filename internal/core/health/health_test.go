package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLiveness_Handler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	Liveness()(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%q want text/plain", ct)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "ok" {
		t.Fatalf("body=%q want ok", got)
	}
}

type dep struct {
	name  string
	ready bool
}

func (d dep) Name() string { return d.name }
func (d dep) Ready() bool  { return d.ready }

func TestReadiness_ReportsDependencies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()

	Readiness(dep{"geocode_redis", true}, dep{"kafka", false})(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	var out struct {
		Status       string          `json:"status"`
		Dependencies map[string]bool `json:"dependencies"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "ready" {
		t.Fatalf("status=%q", out.Status)
	}
	if !out.Dependencies["geocode_redis"] || out.Dependencies["kafka"] {
		t.Fatalf("dependencies=%v", out.Dependencies)
	}
}
