package domain

import "time"

// ParameterDefinition is the exported shape of a parameter, without its value.
type ParameterDefinition struct {
	Name        string
	Type        string
	Unit        string
	Required    bool
	Description string
}

// CommandSchema lists the parameters an element of a family accepts.
type CommandSchema struct {
	// ElementType is the family category.
	ElementType string

	FamilyID   string
	FamilyName string

	// Parameters are keyed by parameter name.
	Parameters map[string]ParameterDefinition

	LastUpdated time.Time
}

// SchemaFromFamily derives the schema of f.
func SchemaFromFamily(f *FamilyMetadata) CommandSchema {
	s := CommandSchema{
		ElementType: f.Category,
		FamilyID:    f.ID,
		FamilyName:  f.Name,
		Parameters:  make(map[string]ParameterDefinition, len(f.Parameters)),
		LastUpdated: f.LastModified,
	}
	for name, p := range f.Parameters {
		s.Parameters[name] = ParameterDefinition{
			Name:        p.Name,
			Type:        p.Type,
			Unit:        p.Unit,
			Required:    p.Required,
			Description: p.Description,
		}
	}
	return s
}
