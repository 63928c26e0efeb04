package protocol

import (
	"sort"
	"time"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

// ParameterRecord is the wire form of a domain.Parameter.
type ParameterRecord struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Unit         string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Required     bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultValue any    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// FamilyRecord is the wire and seed-file form of a domain.FamilyMetadata.
// Parameters travel as a list ordered by name.
type FamilyRecord struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Category         string            `json:"category" yaml:"category"`
	Tags             []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters       []ParameterRecord `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty"`
	PreviewImagePath string            `json:"previewImagePath,omitempty" yaml:"previewImagePath,omitempty"`
	CreatedBy        string            `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	LastModified     time.Time         `json:"lastModified,omitzero" yaml:"lastModified,omitempty"`
}

// CriteriaRecord is the wire form of a domain.SearchCriteria.
type CriteriaRecord struct {
	NameKeyword    string   `json:"nameKeyword,omitempty"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	ParameterName  string   `json:"parameterName,omitempty"`
	ParameterValue string   `json:"parameterValue,omitempty"`
}

// ParameterDefinitionRecord is the wire form of a domain.ParameterDefinition.
type ParameterDefinitionRecord struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// SchemaRecord is the wire and export form of a domain.CommandSchema.
type SchemaRecord struct {
	ElementType string                               `json:"elementType"`
	FamilyID    string                               `json:"familyId"`
	FamilyName  string                               `json:"familyName"`
	Parameters  map[string]ParameterDefinitionRecord `json:"parameters"`
	LastUpdated time.Time                            `json:"lastUpdated,omitzero"`
}

// MutationRecord is the wire form of a domain.MutationResult.
type MutationRecord struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// RecordFromFamily maps a domain family onto its wire form.
func RecordFromFamily(f *domain.FamilyMetadata) FamilyRecord {
	r := FamilyRecord{
		ID:               f.ID,
		Name:             f.Name,
		Category:         f.Category,
		Description:      f.Description,
		PreviewImagePath: f.PreviewImagePath,
		CreatedBy:        f.CreatedBy,
		LastModified:     f.LastModified,
	}
	if f.Tags.Len() > 0 {
		r.Tags = f.Tags.Slice()
	}
	for _, name := range f.ParameterNames() {
		p := f.Parameters[name]
		r.Parameters = append(r.Parameters, ParameterRecord{
			Name:         name,
			Type:         p.Type,
			Unit:         p.Unit,
			Required:     p.Required,
			Description:  p.Description,
			DefaultValue: p.DefaultValue,
		})
	}
	return r
}

// RecordsFromFamilies maps a list of families. The result is never nil.
func RecordsFromFamilies(families []domain.FamilyMetadata) []FamilyRecord {
	out := make([]FamilyRecord, len(families))
	for i := range families {
		out[i] = RecordFromFamily(&families[i])
	}
	return out
}

// ToFamily maps the record onto a validated domain family.
// Integer default values become float64 so values read from YAML and from
// JSON compare alike.
func (r FamilyRecord) ToFamily() (domain.FamilyMetadata, error) {
	params := make([]domain.Parameter, len(r.Parameters))
	for i, p := range r.Parameters {
		params[i] = domain.Parameter{
			Name:         p.Name,
			Type:         p.Type,
			Unit:         p.Unit,
			Required:     p.Required,
			Description:  p.Description,
			DefaultValue: normalizeNumber(p.DefaultValue),
		}
	}

	f, err := domain.NewFamilyMetadata(r.ID, r.Name, r.Category, r.Tags, params)
	if err != nil {
		return domain.FamilyMetadata{}, err
	}
	f.Description = r.Description
	f.PreviewImagePath = r.PreviewImagePath
	f.CreatedBy = r.CreatedBy
	f.LastModified = r.LastModified
	return *f, nil
}

// FamiliesFromRecords maps records, stopping at the first invalid one.
func FamiliesFromRecords(records []FamilyRecord) ([]domain.FamilyMetadata, error) {
	out := make([]domain.FamilyMetadata, 0, len(records))
	for _, r := range records {
		f, err := r.ToFamily()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// CriteriaRecordFrom maps domain criteria onto the wire form.
func CriteriaRecordFrom(c domain.SearchCriteria) CriteriaRecord {
	return CriteriaRecord{
		NameKeyword:    c.NameKeyword,
		Category:       c.Category,
		Tags:           c.Tags,
		ParameterName:  c.ParameterName,
		ParameterValue: c.ParameterValue,
	}
}

// ToCriteria maps the record onto domain criteria.
func (r CriteriaRecord) ToCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		NameKeyword:    r.NameKeyword,
		Category:       r.Category,
		Tags:           r.Tags,
		ParameterName:  r.ParameterName,
		ParameterValue: r.ParameterValue,
	}
}

// SchemaRecordFromSchema maps a command schema onto the wire form.
func SchemaRecordFromSchema(s domain.CommandSchema) SchemaRecord {
	r := SchemaRecord{
		ElementType: s.ElementType,
		FamilyID:    s.FamilyID,
		FamilyName:  s.FamilyName,
		Parameters:  make(map[string]ParameterDefinitionRecord, len(s.Parameters)),
		LastUpdated: s.LastUpdated,
	}
	for name, p := range s.Parameters {
		r.Parameters[name] = ParameterDefinitionRecord(p)
	}
	return r
}

// ToSchema maps the record onto a domain command schema.
func (r SchemaRecord) ToSchema() domain.CommandSchema {
	s := domain.CommandSchema{
		ElementType: r.ElementType,
		FamilyID:    r.FamilyID,
		FamilyName:  r.FamilyName,
		Parameters:  make(map[string]domain.ParameterDefinition, len(r.Parameters)),
		LastUpdated: r.LastUpdated,
	}
	for name, p := range r.Parameters {
		s.Parameters[name] = domain.ParameterDefinition(p)
	}
	return s
}

// SchemaRecordsFromSchemas maps a list of schemas, keeping order.
func SchemaRecordsFromSchemas(schemas []domain.CommandSchema) []SchemaRecord {
	out := make([]SchemaRecord, len(schemas))
	for i := range schemas {
		out[i] = SchemaRecordFromSchema(schemas[i])
	}
	return out
}

// MutationRecordFrom maps a mutation result onto the wire form.
func MutationRecordFrom(r domain.MutationResult) MutationRecord {
	return MutationRecord{Status: string(r.Status), Reason: r.Reason}
}

// ToResult maps the record onto a domain mutation result.
func (r MutationRecord) ToResult() domain.MutationResult {
	return domain.MutationResult{Status: domain.MutationStatus(r.Status), Reason: r.Reason}
}

func normalizeNumber(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// ParameterNames returns the schema's parameter names in sorted order.
func (r SchemaRecord) ParameterNames() []string {
	names := make([]string, 0, len(r.Parameters))
	for name := range r.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
