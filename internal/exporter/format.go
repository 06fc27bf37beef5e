package exporter

import (
	"strconv"

	"olistcli/internal/features"
)

// formatFloat formats a float64 with the fewest digits that round-trip
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatValue renders one training table value as a CSV cell
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatFloat(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}

// formatRecord renders row i of table
func formatRecord(table *features.TrainingTable, i int) []string {
	vals := table.Values(i)
	rec := make([]string, len(vals))
	for j, v := range vals {
		rec[j] = formatValue(v)
	}
	return rec
}
