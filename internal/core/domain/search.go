package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxResults caps result lists when the caller gives no positive limit.
const DefaultMaxResults = 20

// SearchCriteria combines optional filters. Empty fields are not applied;
// the filters that are set must all hold.
type SearchCriteria struct {
	// NameKeyword matches a case-insensitive substring of the name.
	NameKeyword string

	// Category matches the category exactly, ignoring case.
	Category string

	// Tags matches when any tag is shared, ignoring case.
	Tags []string

	// ParameterName requires a parameter with this name.
	ParameterName string

	// ParameterValue requires some parameter whose rendered default equals
	// this text. It is checked independently of ParameterName.
	ParameterValue string
}

// IsEmpty reports whether no filter is set.
func (c SearchCriteria) IsEmpty() bool {
	return strings.TrimSpace(c.NameKeyword) == "" &&
		strings.TrimSpace(c.Category) == "" &&
		len(c.Tags) == 0 &&
		strings.TrimSpace(c.ParameterName) == "" &&
		strings.TrimSpace(c.ParameterValue) == ""
}

// ResolveMaxResults returns limit when positive, otherwise fallback,
// otherwise DefaultMaxResults.
func ResolveMaxResults(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultMaxResults
}

// FormatParameterValue renders a default value as text for comparison.
// Whole floats print without a fraction, so 3000.0 renders as "3000".
// A nil value renders as the empty string.
func FormatParameterValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
