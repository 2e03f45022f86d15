package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnknownKey is returned for a descriptor key the map layer does not accept.
	ErrUnknownKey = errors.New("unknown key")
	// ErrMissingField is returned when schema or table is absent or empty.
	ErrMissingField = errors.New("missing required field")
)

// Map is a descriptor as read by the map layer. Generated files only set
// Schema and Table; the remaining keys may be added by hand.
type Map struct {
	Schema      string   `json:"schema" jsonschema:"minLength=1,description=PostGIS schema of the source table"`
	Table       string   `json:"table" jsonschema:"minLength=1,description=PostGIS table holding the geometries"`
	PGName      string   `json:"pgname,omitempty" jsonschema:"description=Name of the configured database connection"`
	Where       string   `json:"where,omitempty" jsonschema:"description=Extra SQL condition for selecting features"`
	Lines       *bool    `json:"lines,omitempty" jsonschema:"description=Render geometries as lines"`
	MinDistance *float64 `json:"mindistance,omitempty" jsonschema:"description=Minimum distance between simplified vertices"`
	MinArea     *float64 `json:"minarea,omitempty" jsonschema:"description=Minimum area of rendered polygons"`
}

var allowedKeys = map[string]bool{
	"schema":      true,
	"table":       true,
	"pgname":      true,
	"where":       true,
	"lines":       true,
	"mindistance": true,
	"minarea":     true,
}

// Decode parses and validates descriptor content.
func Decode(data []byte) (*Map, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var unknown []string
	for k := range raw {
		if !allowedKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(unknown, ", "))
	}

	var m Map
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}
	if m.Schema == "" {
		return nil, fmt.Errorf("%w: schema", ErrMissingField)
	}
	if m.Table == "" {
		return nil, fmt.Errorf("%w: table", ErrMissingField)
	}
	return &m, nil
}

// Severity of a check finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one problem found in a descriptor file.
type Finding struct {
	Path     string   `json:"path" yaml:"path"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Report is the outcome of Check.
type Report struct {
	Files    int       `json:"files" yaml:"files"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// HasErrors reports whether any finding is an error.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Check validates every <root>/<schema>/*.json descriptor.
func Check(root string) (*Report, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(root, "*", "*"+Ext))
	if err != nil {
		return nil, err
	}

	report := &Report{Findings: []Finding{}}
	for _, path := range paths {
		report.Files++

		data, err := os.ReadFile(path)
		if err != nil {
			report.Findings = append(report.Findings, Finding{Path: path, Severity: SeverityError, Message: err.Error()})
			continue
		}

		m, err := Decode(data)
		if err != nil {
			report.Findings = append(report.Findings, Finding{Path: path, Severity: SeverityError, Message: err.Error()})
			continue
		}

		if dir := filepath.Base(filepath.Dir(path)); dir != m.Schema {
			report.Findings = append(report.Findings, Finding{
				Path:     path,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("schema %q does not match directory %q", m.Schema, dir),
			})
		}
	}
	return report, nil
}
