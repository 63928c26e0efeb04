package domain

import (
	"sort"
	"strings"
	"time"
)

// Parameter is a named, typed attribute of a family.
// It is a value object: two parameters with equal fields are the same parameter.
type Parameter struct {
	// Name identifies the parameter within its family.
	Name string

	// Type is the parameter's data type label, e.g. "Length" or "Text".
	Type string

	// Unit is the measurement unit, empty for unitless parameters.
	Unit string

	// Required marks parameters a placed element must define.
	Required bool

	// Description is free-form help text.
	Description string

	// DefaultValue is any JSON-representable value. Treat it as read-only.
	DefaultValue any
}

// FamilyMetadata describes a catalogued family.
type FamilyMetadata struct {
	// ID is the unique, opaque identifier.
	ID string

	// Name is the display name searched by keyword.
	Name string

	// Category groups families, e.g. "Doors" or "Windows".
	Category string

	// Tags is the deduplicated tag set.
	Tags TagSet

	// Parameters are keyed by parameter name.
	Parameters map[string]Parameter

	// Description is free-form text.
	Description string

	// PreviewImagePath points at a thumbnail, if any.
	PreviewImagePath string

	// CreatedBy is the user id of the author, used by the access policy.
	CreatedBy string

	// LastModified is stamped by the library when the family is saved.
	LastModified time.Time
}

// NewFamilyMetadata creates a family and checks its invariants.
// Duplicate tags collapse; a later parameter with the same name replaces an earlier one.
func NewFamilyMetadata(id, name, category string, tags []string, params []Parameter) (*FamilyMetadata, error) {
	f := &FamilyMetadata{
		ID:         id,
		Name:       name,
		Category:   category,
		Tags:       NewTagSet(tags...),
		Parameters: make(map[string]Parameter, len(params)),
	}
	for _, p := range params {
		f.Parameters[p.Name] = p
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks that id, name and category are non-empty and every
// parameter is keyed by a non-empty name.
func (f *FamilyMetadata) Validate() error {
	switch {
	case strings.TrimSpace(f.ID) == "":
		return NewValidationError("id", "must not be empty")
	case strings.TrimSpace(f.Name) == "":
		return NewValidationError("name", "must not be empty")
	case strings.TrimSpace(f.Category) == "":
		return NewValidationError("category", "must not be empty")
	}
	for key := range f.Parameters {
		if strings.TrimSpace(key) == "" {
			return NewValidationError("parameters", "must not contain an unnamed parameter")
		}
	}
	return nil
}

// Clone returns a deep copy that shares no tag or parameter storage with f.
func (f *FamilyMetadata) Clone() FamilyMetadata {
	c := *f
	c.Tags = f.Tags.Clone()
	if f.Parameters != nil {
		c.Parameters = make(map[string]Parameter, len(f.Parameters))
		for k, v := range f.Parameters {
			c.Parameters[k] = v
		}
	}
	return c
}

// ParameterNames returns the parameter names in sorted order.
func (f *FamilyMetadata) ParameterNames() []string {
	names := make([]string, 0, len(f.Parameters))
	for name := range f.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TagSet is an unordered set of tags. The zero value is an empty set.
type TagSet map[string]struct{}

// NewTagSet builds a set from tags, dropping duplicates.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Len returns the number of distinct tags.
func (s TagSet) Len() int {
	return len(s)
}

// Slice returns the tags sorted.
func (s TagSet) Slice() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Clone copies the set.
func (s TagSet) Clone() TagSet {
	if s == nil {
		return nil
	}
	c := make(TagSet, len(s))
	for t := range s {
		c[t] = struct{}{}
	}
	return c
}

// IntersectsFold reports whether any of tags is in the set, ignoring case.
// An empty tags list never intersects.
func (s TagSet) IntersectsFold(tags []string) bool {
	for _, want := range tags {
		for have := range s {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}
