package crm

import (
	"errors"
	"testing"

	"github.com/devang127/lead-management/internal/ids"
)

func validInput() LeadInput {
	return LeadInput{
		Name:   "Acme Corp",
		Email:  "contact@acme.example",
		Phone:  "5551234567",
		Source: "Website",
	}
}

func TestNormalizeValidInput(t *testing.T) {
	in := validInput()
	in.Email = "  Contact@ACME.example "
	in.Tags = "hot, priority"

	f, err := in.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if f.email != "contact@acme.example" {
		t.Fatalf("email was not normalized: %s", f.email)
	}
	if len(f.tags) != 2 || f.tags[0] != "hot" || f.tags[1] != "priority" {
		t.Fatalf("tags were not split: %v", f.tags)
	}
	if f.status != StatusNew || f.statusProvided {
		t.Fatalf("missing status should default without being marked provided")
	}
}

func TestNormalizeRejectsMissingRequiredFields(t *testing.T) {
	for _, mutate := range []func(*LeadInput){
		func(in *LeadInput) { in.Name = "" },
		func(in *LeadInput) { in.Email = "" },
		func(in *LeadInput) { in.Phone = "" },
		func(in *LeadInput) { in.Source = "  " },
	} {
		in := validInput()
		mutate(&in)
		if _, err := in.normalize(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestNormalizeRejectsBadEmail(t *testing.T) {
	in := validInput()
	in.Email = "not-an-email"
	if _, err := in.normalize(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeRejectsBadPhone(t *testing.T) {
	for _, phone := range []string{"12345", "555123456789", "555-123-456", "phone"} {
		in := validInput()
		in.Phone = phone
		if _, err := in.normalize(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("phone %q: expected ErrInvalidInput, got %v", phone, err)
		}
	}
}

func TestNormalizeRejectsUnknownStatus(t *testing.T) {
	in := validInput()
	in.Status = "Reopened"
	if _, err := in.normalize(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeRejectsMalformedAssignee(t *testing.T) {
	in := validInput()
	in.AssignedTo = "not-a-ulid"
	if _, err := in.normalize(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestApplyKeepsStoredOptionalValues(t *testing.T) {
	assignee := ids.New()
	lead := &Lead{
		Status:     StatusQualified,
		Tags:       []string{"existing"},
		Notes:      "keep me",
		AssignedTo: assignee,
	}

	f, err := validInput().normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	f.apply(lead)

	if lead.Status != StatusQualified {
		t.Fatalf("omitted status reset the stored value: %s", lead.Status)
	}
	if len(lead.Tags) != 1 || lead.Tags[0] != "existing" {
		t.Fatalf("omitted tags reset the stored value: %v", lead.Tags)
	}
	if lead.Notes != "keep me" {
		t.Fatalf("omitted notes reset the stored value: %s", lead.Notes)
	}
	if lead.AssignedTo != assignee {
		t.Fatalf("omitted assignee reset the stored value: %s", lead.AssignedTo)
	}
}

func TestApplyOverwritesProvidedValues(t *testing.T) {
	lead := &Lead{Status: StatusQualified, Notes: "old"}

	in := validInput()
	in.Status = "Won"
	in.Notes = "closed the deal"
	f, err := in.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	f.apply(lead)

	if lead.Status != StatusWon {
		t.Fatalf("status was not applied: %s", lead.Status)
	}
	if lead.Notes != "closed the deal" {
		t.Fatalf("notes were not applied: %s", lead.Notes)
	}
}

func TestSplitTags(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"a, b", []string{"a", "b"}},
		{"a,,b, ", []string{"a", "b"}},
		{" solo ", []string{"solo"}},
	}
	for _, tc := range cases {
		got := SplitTags(tc.raw)
		if len(got) != len(tc.want) {
			t.Fatalf("SplitTags(%q) = %v, want %v", tc.raw, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("SplitTags(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		}
	}
}
