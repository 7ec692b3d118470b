package health

import (
	"encoding/json"
	"net/http"
)

// Path is where the health check is mounted.
const Path = "/health"

// Response is the payload for the health endpoint.
type Response struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Handler reports liveness together with the build version. It sits outside
// huma so probes never depend on content negotiation.
func Handler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(Response{Status: "healthy", Version: version})
	}
}
