package api

import "net/http"

// handleReports serves cached reports and queues generation for misses. A
// miss answers 202 and the client retries after the pipeline catches up.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	res, ready, err := s.reports.Request(r.Context(), actor, r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, err)
		return
	}
	if !ready {
		respondJSON(w, http.StatusAccepted, nil)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
