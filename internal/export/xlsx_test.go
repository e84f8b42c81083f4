package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWorkbookRoundTrip(t *testing.T) {
	headers := []string{"name", "tags", "assignedTo"}
	rows := [][]string{
		{"Jane Doe", "a, b", "Unassigned"},
		{"John Roe", "", "Agent Smith"},
	}

	data, err := Workbook(headers, rows)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("Leads")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0][0] != "name" || got[0][1] != "tags" {
		t.Fatalf("unexpected header row: %v", got[0])
	}
	if got[1][1] != "a, b" {
		t.Fatalf("tags cell mangled: %v", got[1])
	}
	if got[1][2] != "Unassigned" {
		t.Fatalf("assignee sentinel missing: %v", got[1])
	}
}

func TestWorkbookEmpty(t *testing.T) {
	data, err := Workbook([]string{"name"}, nil)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Leads")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
