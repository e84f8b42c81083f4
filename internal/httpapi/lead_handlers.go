package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devang127/lead-management/internal/crm"
	"github.com/devang127/lead-management/internal/export"
)

// parseLeadFilter reads the listing filters off the query string. Dates accept
// either a plain date or RFC 3339; a plain end date is widened to the end of
// that day so single-day ranges match.
func parseLeadFilter(r *http.Request) (crm.Filter, error) {
	q := r.URL.Query()
	f := crm.Filter{
		Status:     crm.Status(strings.TrimSpace(q.Get("status"))),
		Tags:       crm.SplitTags(q.Get("tags")),
		AssigneeID: strings.TrimSpace(q.Get("assignedTo")),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	if raw := strings.TrimSpace(q.Get("startDate")); raw != "" {
		t, _, err := parseFilterDate(raw)
		if err != nil {
			return crm.Filter{}, fmt.Errorf("%w: invalid startDate", crm.ErrInvalidInput)
		}
		f.StartDate = t
	}
	if raw := strings.TrimSpace(q.Get("endDate")); raw != "" {
		t, dateOnly, err := parseFilterDate(raw)
		if err != nil {
			return crm.Filter{}, fmt.Errorf("%w: invalid endDate", crm.ErrInvalidInput)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.EndDate = t
	}
	return f, nil
}

func parseFilterDate(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse("2006-01-02", raw); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	return t, false, err
}

func (a *API) handleListLeads(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	filter, err := parseLeadFilter(r)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	leads, err := a.leads.List(r.Context(), actor, filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	if leads == nil {
		leads = []*crm.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (a *API) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var in crm.LeadInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lead, err := a.leads.Create(r.Context(), actor, in)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (a *API) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var in crm.LeadInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lead, err := a.leads.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (a *API) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	if err := a.leads.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lead deleted successfully"})
}

func (a *API) handleLeadTags(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	tags, err := a.leads.Tags(r.Context(), actor)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (a *API) handleExportLeads(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	filter, err := parseLeadFilter(r)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	headers, rows, err := a.leads.Export(r.Context(), actor, filter, r.URL.Query().Get("fields"))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	book, err := export.Workbook(headers, rows)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename=leads.xlsx`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(book)
}
