package input

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/impactradar/internal/model"
)

//go:embed schema.json
var schemaJSON []byte

// schemaURL identifies the embedded schema inside the compiler.
const schemaURL = "schema://impactradar/analysis.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Analysis is the content of an analysis file.
type Analysis struct {
	Company string            `yaml:"company"`
	Scores  map[string]int    `yaml:"scores"`
	Notes   map[string]string `yaml:"notes,omitempty"`
}

// Parse decodes and validates an analysis document.
func Parse(data []byte) (*Analysis, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	if doc == nil {
		return &Analysis{}, nil
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var a Analysis
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	return &a, nil
}

// validate checks a decoded YAML document against the embedded schema.
// The schema library works on JSON values, so the document is converted
// through encoding/json first.
func validate(doc any) error {
	schema, err := analysisSchema()
	if err != nil {
		return fmt.Errorf("compile analysis schema: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	return nil
}

// analysisSchema compiles the embedded schema once.
func analysisSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Session builds a session from the analysis. Dimensions missing from the
// file keep their defaults.
func (a *Analysis) Session() (*model.Session, error) {
	for slug := range a.Scores {
		if _, err := model.ParseDimensionID(slug); err != nil {
			return nil, err
		}
	}
	for slug := range a.Notes {
		if _, err := model.ParseDimensionID(slug); err != nil {
			return nil, err
		}
	}

	s := model.NewSession()
	s.SetCompanyName(a.Company)

	for _, id := range model.DimensionIDs() {
		if v, ok := a.Scores[id.Slug()]; ok {
			if err := s.SetScore(id, v); err != nil {
				return nil, err
			}
		}
		if text, ok := a.Notes[id.Slug()]; ok {
			if err := s.SetNote(id, text); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// Load reads, validates and applies an analysis file.
func Load(path string) (*model.Session, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided analysis path is intentional
	if err != nil {
		return nil, err
	}

	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s, err := a.Session()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FromSession converts a session back into an analysis, for example to save
// edits made in the interactive editor.
func FromSession(s *model.Session) *Analysis {
	a := &Analysis{
		Company: s.CompanyName(),
		Scores:  make(map[string]int, model.DimensionCount),
		Notes:   make(map[string]string),
	}
	for _, id := range model.DimensionIDs() {
		score, _ := s.Score(id)
		a.Scores[id.Slug()] = score
		if note, _ := s.Note(id); note != "" {
			a.Notes[id.Slug()] = note
		}
	}
	return a
}

// Marshal encodes the analysis as YAML.
func (a *Analysis) Marshal() ([]byte, error) {
	return yaml.Marshal(a)
}
