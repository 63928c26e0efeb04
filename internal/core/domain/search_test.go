package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchCriteria_IsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		criteria SearchCriteria
		want     bool
	}{
		{"zero value", SearchCriteria{}, true},
		{"whitespace only", SearchCriteria{NameKeyword: "  ", Category: "\t"}, true},
		{"keyword", SearchCriteria{NameKeyword: "door"}, false},
		{"tags", SearchCriteria{Tags: []string{"a"}}, false},
		{"parameter value", SearchCriteria{ParameterValue: "3000"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.IsEmpty())
		})
	}
}

func TestResolveMaxResults(t *testing.T) {
	assert.Equal(t, 5, ResolveMaxResults(5, 50))
	assert.Equal(t, 50, ResolveMaxResults(0, 50))
	assert.Equal(t, 50, ResolveMaxResults(-1, 50))
	assert.Equal(t, DefaultMaxResults, ResolveMaxResults(0, 0))
}

func TestFormatParameterValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "Oak", "Oak"},
		{"whole float", float64(3000), "3000"},
		{"fractional float", 12.5, "12.5"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool", true, "true"},
		{"json number", json.Number("3000"), "3000"},
		{"slice", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatParameterValue(tt.value))
		})
	}
}
