// Package output renders command results for terminals and scripts.
//
// Text output is styled with lipgloss when writing to a terminal and plain
// otherwise. JSON and YAML modes emit machine-readable documents.
package output

import "strings"

// OutputMode selects how results are rendered.
type OutputMode string

// Supported output modes.
const (
	ModeAuto OutputMode = "auto"
	ModeText OutputMode = "text"
	ModeJSON OutputMode = "json"
	ModeYAML OutputMode = "yaml"
)

// Modes lists the accepted --output values.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeJSON), string(ModeYAML)}
}

// Mode parses an --output value. Unknown and empty values map to ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText
	case ModeJSON:
		return ModeJSON
	case ModeYAML:
		return ModeYAML
	default:
		return ModeAuto
	}
}

// IsStructured reports whether the mode emits a data document.
func (m OutputMode) IsStructured() bool {
	return m == ModeJSON || m == ModeYAML
}
