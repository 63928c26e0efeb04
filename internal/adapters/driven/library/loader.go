// Package library loads seed families from YAML and JSON files and watches
// those files for changes.
//
// A seed file holds either a list of families or a mapping with a
// families key:
//
//	families:
//	  - id: door-1
//	    name: Single Flush Door
//	    category: Doors
//	    tags: [interior, wood]
//	    parameters:
//	      - name: Width
//	        type: Length
//	        defaultValue: 900
package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/logger"
	"github.com/custodia-labs/famlink/internal/protocol"
)

// ErrNoMatches is returned when a pattern matches no seed files.
var ErrNoMatches = errors.New("no seed files match pattern")

// Seed is the result of loading a pattern.
type Seed struct {
	// Files are the seed files read, in the order they were applied.
	Files []string

	// Families holds one entry per id; later files override earlier ones.
	Families []domain.FamilyMetadata
}

// Load expands pattern (doublestar syntax, e.g. seeds/**/*.yaml) and reads
// every matching .yaml, .yml and .json file. Files are applied in lexical
// order. Any unreadable file or invalid family fails the whole load.
func Load(pattern string) (*Seed, error) {
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fmt.Errorf("%w: bad pattern %q", domain.ErrInvalidInput, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		if isSeedFile(m) {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
	}
	sort.Strings(files)

	byID := make(map[string]domain.FamilyMetadata)
	for _, path := range files {
		records, err := readFile(path)
		if err != nil {
			return nil, err
		}
		for i, r := range records {
			f, err := r.ToFamily()
			if err != nil {
				return nil, fmt.Errorf("%s: family %d (%q): %w", path, i, r.ID, err)
			}
			byID[f.ID] = f
		}
		logger.Debug("read %d families from %s", len(records), path)
	}

	seed := &Seed{Files: files, Families: make([]domain.FamilyMetadata, 0, len(byID))}
	for _, f := range byID {
		seed.Families = append(seed.Families, f)
	}
	sort.Slice(seed.Families, func(i, j int) bool {
		return seed.Families[i].ID < seed.Families[j].ID
	})
	return seed, nil
}

func isSeedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func readFile(path string) ([]protocol.FamilyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var records []protocol.FamilyRecord
	if strings.EqualFold(filepath.Ext(path), ".json") {
		records, err = decodeJSON(data)
	} else {
		records, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

type seedDocument struct {
	Families []protocol.FamilyRecord `json:"families" yaml:"families"`
}

func decodeYAML(data []byte) ([]protocol.FamilyRecord, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var records []protocol.FamilyRecord
		if err := doc.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	case yaml.MappingNode:
		var sd seedDocument
		if err := doc.Decode(&sd); err != nil {
			return nil, err
		}
		return sd.Families, nil
	default:
		return nil, fmt.Errorf("line %d: expected a list or a families mapping", doc.Line)
	}
}

func decodeJSON(data []byte) ([]protocol.FamilyRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []protocol.FamilyRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var sd seedDocument
	if err := json.Unmarshal(trimmed, &sd); err != nil {
		return nil, err
	}
	return sd.Families, nil
}
