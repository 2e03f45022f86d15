package descriptor

import (
	"github.com/invopop/jsonschema"
)

// SchemaID identifies the descriptor schema.
const SchemaID = "https://github.com/fmidev/mapdesc/descriptor.schema.json"

// Schema returns the JSON Schema of a map descriptor.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(&Map{})
	s.ID = SchemaID
	s.Title = "Map layer descriptor"
	return s
}
