package health

import (
	"encoding/json"
	"net/http"
)

func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// DependencyReporter names an optional collaborator and whether it is
// currently usable.
type DependencyReporter interface {
	Name() string
	Ready() bool
}

// Readiness reports per-dependency state. The service itself stays ready
// when optional collaborators are down; they degrade features, not the
// core pipeline.
func Readiness(deps ...DependencyReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type resp struct {
			Status       string          `json:"status"`
			Dependencies map[string]bool `json:"dependencies,omitempty"`
		}
		out := resp{Status: "ready"}
		if len(deps) > 0 {
			out.Dependencies = make(map[string]bool, len(deps))
			for _, d := range deps {
				out.Dependencies[d.Name()] = d.Ready()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
