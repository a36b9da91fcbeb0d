package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the configuration file.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{DoNotReference: true, FieldNameTag: "yaml"}
	schema := reflector.Reflect(&Config{})
	schema.Title = "kiosk configuration"
	return json.MarshalIndent(schema, "", "  ")
}
