package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "olistcli/internal/errors"
)

// timestampLayouts are tried in order; the first is the marketplace export format
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Timestamp is a point in time that may be missing
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// ParseTimestamp parses s as UTC. Empty or unparseable input yields a
// missing timestamp rather than an error.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t.UTC(), Valid: true}
		}
	}
	return Timestamp{}
}

// isMissing reports whether a trimmed cell holds no value
func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}

// cellError builds the PARSING error for a cell that could not be converted
func cellError(table, column string, line int, value string, err error) error {
	return apperrors.NewParsingError(fmt.Sprintf("invalid value %q in column %s", value, column), err).
		WithContext("table", table).
		WithContext("column", column).
		WithContext("line", line)
}

// parseNullFloat parses a float cell; missing cells are not an error
func parseNullFloat(s, table, column string, line int) (sql.NullFloat64, error) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return sql.NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return sql.NullFloat64{}, cellError(table, column, line, s, err)
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

// parseNullInt parses an integer cell, accepting integral floats such as "5.0"
func parseNullInt(s, table, column string, line int) (sql.NullInt64, error) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return sql.NullInt64{}, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sql.NullInt64{Int64: v, Valid: true}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return sql.NullInt64{}, cellError(table, column, line, s, err)
	}
	return sql.NullInt64{Int64: int64(f), Valid: true}, nil
}

// parseNullDecimal parses a monetary cell
func parseNullDecimal(s, table, column string, line int) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, cellError(table, column, line, s, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// normalizeZip trims a zip code prefix and drops leading zeros, so that
// "01037" written by one export matches 1037 written by another
func normalizeZip(s string) string {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return ""
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
