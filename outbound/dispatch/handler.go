package dispatch

import (
	"encoding/json"
	"net/http"

	"outbound-dispatcher/outbound/dispatch/domain"
)

type traceResponse struct {
	Capacity int                  `json:"capacity"`
	InFlight int                  `json:"in_flight"`
	Totals   Totals               `json:"totals"`
	Lanes    []domain.TraceRecord `json:"lanes"`
}

// TraceHandler responde GET com o snapshot atual em JSON.
func TraceHandler(d *Dispatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		snap := d.TraceSnapshot()
		resp := traceResponse{
			Capacity: d.Capacity(),
			InFlight: d.InFlight(),
			Totals:   Sum(snap),
			Lanes:    snap,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
}
