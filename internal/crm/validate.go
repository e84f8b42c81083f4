package crm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devang127/lead-management/internal/ids"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// LeadInput is the write payload for create and update. Tags arrive as a
// comma-separated string; AssignedTo as a user id or empty.
type LeadInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Source     string `json:"source"`
	Status     string `json:"status"`
	Tags       string `json:"tags"`
	Notes      string `json:"notes"`
	AssignedTo string `json:"assignedTo"`
}

// leadFields is the validated, normalized form of a LeadInput. Validation is
// all-or-nothing: no field is applied until every check passes.
type leadFields struct {
	name           string
	email          string
	phone          string
	source         string
	status         Status
	statusProvided bool
	tags           []string
	notes          string
	assignedTo     string
}

func (in LeadInput) normalize() (leadFields, error) {
	var f leadFields
	f.name = strings.TrimSpace(in.Name)
	f.email = strings.TrimSpace(strings.ToLower(in.Email))
	f.phone = strings.TrimSpace(in.Phone)
	f.source = strings.TrimSpace(in.Source)
	f.notes = strings.TrimSpace(in.Notes)
	f.assignedTo = strings.TrimSpace(in.AssignedTo)

	if f.name == "" || f.email == "" || f.phone == "" || f.source == "" {
		return leadFields{}, fmt.Errorf("%w: name, email, phone, and source are required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(f.email) {
		return leadFields{}, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if !phonePattern.MatchString(f.phone) {
		return leadFields{}, fmt.Errorf("%w: phone number must be 10 digits", ErrInvalidInput)
	}
	status, err := ParseStatus(in.Status)
	if err != nil {
		return leadFields{}, err
	}
	f.status = status
	f.statusProvided = strings.TrimSpace(in.Status) != ""
	f.tags = SplitTags(in.Tags)
	if f.assignedTo != "" && !ids.Valid(f.assignedTo) {
		return leadFields{}, fmt.Errorf("%w: invalid assignedTo id", ErrInvalidInput)
	}
	return f, nil
}

// apply writes the validated fields onto the lead. Empty optional inputs keep
// the stored value, matching the observed update semantics.
func (f leadFields) apply(lead *Lead) {
	lead.Name = f.name
	lead.Email = f.email
	lead.Phone = f.phone
	lead.Source = f.source
	if f.statusProvided {
		lead.Status = f.status
	}
	if f.tags != nil {
		lead.Tags = f.tags
	}
	if f.notes != "" {
		lead.Notes = f.notes
	}
	if f.assignedTo != "" {
		lead.AssignedTo = f.assignedTo
	}
}
