package crm

import (
	"fmt"
	"strings"
)

// exportTimeLayout mirrors the locale display format the export has always
// used for timestamps.
const exportTimeLayout = "1/2/2006, 3:04:05 PM"

// ExportFieldNames is the fixed, ordered set of exportable columns.
var ExportFieldNames = []string{
	"name", "email", "phone", "source", "status",
	"tags", "notes", "assignedTo", "createdAt", "updatedAt",
}

// SelectExportFields parses the caller's comma-separated field subset. Empty
// input selects every field; any name outside the fixed set fails with an
// enumeration of the offending names.
func SelectExportFields(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		out := make([]string, len(ExportFieldNames))
		copy(out, ExportFieldNames)
		return out, nil
	}
	known := make(map[string]struct{}, len(ExportFieldNames))
	for _, f := range ExportFieldNames {
		known[f] = struct{}{}
	}
	var fields, invalid []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := known[f]; !ok {
			invalid = append(invalid, f)
			continue
		}
		fields = append(fields, f)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: invalid fields: %s", ErrInvalidInput, strings.Join(invalid, ", "))
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no export fields selected", ErrInvalidInput)
	}
	return fields, nil
}

// ExportRows renders leads into spreadsheet rows in field order. Tag lists
// flatten to a delimited string, a missing assignee renders as "Unassigned",
// timestamps use the locale display format and everything else passes
// through verbatim.
func ExportRows(leads []*Lead, fields []string) [][]string {
	rows := make([][]string, 0, len(leads))
	for _, lead := range leads {
		row := make([]string, 0, len(fields))
		for _, f := range fields {
			row = append(row, exportValue(lead, f))
		}
		rows = append(rows, row)
	}
	return rows
}

func exportValue(lead *Lead, field string) string {
	switch field {
	case "name":
		return lead.Name
	case "email":
		return lead.Email
	case "phone":
		return lead.Phone
	case "source":
		return lead.Source
	case "status":
		return string(lead.Status)
	case "tags":
		return strings.Join(lead.Tags, ", ")
	case "notes":
		return lead.Notes
	case "assignedTo":
		if lead.Assignee == nil {
			return "Unassigned"
		}
		return lead.Assignee.Name
	case "createdAt":
		return lead.CreatedAt.Format(exportTimeLayout)
	case "updatedAt":
		return lead.UpdatedAt.Format(exportTimeLayout)
	default:
		return ""
	}
}
