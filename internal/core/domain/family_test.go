package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFamilyMetadata_Valid(t *testing.T) {
	f, err := NewFamilyMetadata("door-001", "Single Flush Door", "Doors",
		[]string{"interior", "wood"},
		[]Parameter{{Name: "Width", Type: "Length", Unit: "mm", DefaultValue: 900}},
	)

	require.NoError(t, err)
	assert.Equal(t, "door-001", f.ID)
	assert.Equal(t, 2, f.Tags.Len())
	assert.Equal(t, 900, f.Parameters["Width"].DefaultValue)
}

func TestNewFamilyMetadata_RejectsEmptyFields(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		famName  string
		category string
		field    string
	}{
		{"empty id", "", "Door", "Doors", "id"},
		{"whitespace id", "   ", "Door", "Doors", "id"},
		{"empty name", "door-1", "", "Doors", "name"},
		{"empty category", "door-1", "Door", "", "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFamilyMetadata(tt.id, tt.famName, tt.category, nil, nil)

			assert.Nil(t, f)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNewFamilyMetadata_DeduplicatesTags(t *testing.T) {
	f, err := NewFamilyMetadata("w-1", "Window", "Windows",
		[]string{"exterior", "exterior", "glass", "exterior"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"exterior", "glass"}, f.Tags.Slice())
}

func TestNewFamilyMetadata_KeepsLongAndSpecialTags(t *testing.T) {
	long := strings.Repeat("x", 2048)
	special := `tag "with" quotes, commas; and ünïcödé/slashes\`

	f, err := NewFamilyMetadata("w-1", "Window", "Windows", []string{long, special}, nil)

	require.NoError(t, err)
	assert.True(t, f.Tags.Has(long))
	assert.True(t, f.Tags.Has(special))
}

func TestNewFamilyMetadata_LastParameterWins(t *testing.T) {
	f, err := NewFamilyMetadata("w-1", "Window", "Windows", nil, []Parameter{
		{Name: "Height", DefaultValue: 1200},
		{Name: "Height", DefaultValue: 1500},
	})

	require.NoError(t, err)
	assert.Len(t, f.Parameters, 1)
	assert.Equal(t, 1500, f.Parameters["Height"].DefaultValue)
}

func TestFamilyMetadata_Validate_UnnamedParameter(t *testing.T) {
	f := FamilyMetadata{
		ID: "x", Name: "X", Category: "C",
		Parameters: map[string]Parameter{"": {}},
	}

	err := f.Validate()

	assert.True(t, errors.Is(err, ErrValidation))
}

func TestFamilyMetadata_Clone_IsIndependent(t *testing.T) {
	f, err := NewFamilyMetadata("d-1", "Door", "Doors", []string{"a"},
		[]Parameter{{Name: "Width", DefaultValue: 900}})
	require.NoError(t, err)

	c := f.Clone()
	c.Tags["b"] = struct{}{}
	c.Parameters["Height"] = Parameter{Name: "Height"}
	c.Name = "Changed"

	assert.Equal(t, 1, f.Tags.Len())
	assert.Len(t, f.Parameters, 1)
	assert.Equal(t, "Door", f.Name)
}

func TestFamilyMetadata_Clone_NilCollections(t *testing.T) {
	f := FamilyMetadata{ID: "x", Name: "X", Category: "C"}

	c := f.Clone()

	assert.Nil(t, c.Tags)
	assert.Nil(t, c.Parameters)
}

func TestFamilyMetadata_ParameterNames(t *testing.T) {
	f := FamilyMetadata{Parameters: map[string]Parameter{"b": {}, "a": {}, "c": {}}}

	assert.Equal(t, []string{"a", "b", "c"}, f.ParameterNames())
}

func TestTagSet_IntersectsFold(t *testing.T) {
	s := NewTagSet("Exterior", "Glass")

	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{"exact match", []string{"Glass"}, true},
		{"different case", []string{"exterior"}, true},
		{"no overlap", []string{"wood"}, false},
		{"empty query", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IntersectsFold(tt.tags))
		})
	}
}

func TestTagSet_ZeroValue(t *testing.T) {
	var s TagSet

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("x"))
	assert.Empty(t, s.Slice())
	assert.False(t, s.IntersectsFold([]string{"x"}))
}
