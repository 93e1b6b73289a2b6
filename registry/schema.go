package registry

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ConfigSchema returns a JSON Schema describing the registry config
// file format. Point editors or CI validation at it to catch malformed
// registry files before they reach Load.
func ConfigSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: false,
	}
	return r.Reflect(&ConfigFile{})
}

// ConfigSchemaJSON returns the schema as indented JSON, ready to write
// to a file.
func ConfigSchemaJSON() ([]byte, error) {
	return json.MarshalIndent(ConfigSchema(), "", "  ")
}
