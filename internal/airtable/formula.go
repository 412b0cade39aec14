package airtable

import (
	"fmt"
	"strings"
)

// StatusFormula builds the filterByFormula selecting records by status:
// {status} = 'X' for one value, OR(...) for several.
func StatusFormula(statuses ...string) string {
	switch len(statuses) {
	case 0:
		return ""
	case 1:
		return equals("status", statuses[0])
	}
	parts := make([]string, len(statuses))
	for i, status := range statuses {
		parts[i] = equals("status", status)
	}
	return "OR(" + strings.Join(parts, ",") + ")"
}

func equals(field, value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return fmt.Sprintf("{%s} = '%s'", field, escaped)
}
