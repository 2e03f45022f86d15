// Package descriptor formats, writes and validates map layer descriptor
// files.
//
// A generated descriptor names the PostGIS schema and table a map layer
// draws from:
//
//	{
//		"schema": "geo",
//		"table": "roads_wgs84"
//	}
//
// Files live at <root>/<schema>/<shortname>.json.
package descriptor

import (
	"fmt"
	"path/filepath"
)

// Ext is the file extension of descriptor files.
const Ext = ".json"

// Descriptor is the generated content of one descriptor file.
type Descriptor struct {
	Schema string
	Table  string
}

// Render returns the file content: a two-key object with tab-indented keys
// followed by a blank line. Values are written as given, without escaping.
func (d Descriptor) Render() string {
	return fmt.Sprintf("{\n\t\"schema\": \"%s\",\n\t\"table\": \"%s\"\n}\n\n", d.Schema, d.Table)
}

// Path returns the location of a descriptor below root.
func Path(root, schema, shortName string) string {
	return filepath.Join(root, schema, shortName+Ext)
}
