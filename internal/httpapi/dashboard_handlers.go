package httpapi

import "net/http"

func (a *API) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	stats, err := a.leads.Stats(r.Context(), actor)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
