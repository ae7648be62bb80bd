package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

//go:embed qix.json
var defaultDefinition []byte

// Param is an in or out parameter of a method.
type Param struct {
	Name         string `json:"Name"`
	Type         string `json:"Type,omitempty"`
	Optional     bool   `json:"Optional,omitempty"`
	DefaultValue any    `json:"DefaultValue,omitempty"`
}

// Method describes one engine method of an object type.
type Method struct {
	Name string  `json:"-"`
	In   []Param `json:"In,omitempty"`
	Out  []Param `json:"Out,omitempty"`

	params *jsonschema.Resolved
}

// OutKey returns the name of the single out parameter, or "" when the
// method has zero or several.
func (m *Method) OutKey() string {
	if len(m.Out) == 1 {
		return m.Out[0].Name
	}

	return ""
}

// Definition is a parsed QIX schema.
type Definition struct {
	log     *slog.Logger
	Version string                        `json:"version"`
	Structs map[string]map[string]*Method `json:"structs"`
}

// Parse decodes a QIX schema document and compiles parameter schemas for
// every method.
func Parse(log *slog.Logger, data []byte) (*Definition, error) {
	def := &Definition{log: log.With("component", "schema")}

	if err := json.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	for typeName, methods := range def.Structs {
		for name, m := range methods {
			if m == nil {
				m = &Method{}
				methods[name] = m
			}

			m.Name = name

			resolved, err := paramSchema(m.In).Resolve(nil)
			if err != nil {
				return nil, fmt.Errorf("compile parameters of %s.%s: %w", typeName, name, err)
			}

			m.params = resolved
		}
	}

	def.log.Debug("Parsed definition", "version", def.Version, "types", len(def.Structs))

	return def, nil
}

// Load reads and parses a QIX schema file.
func Load(log *slog.Logger, path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	return Parse(log, data)
}

// Default parses the definition embedded in this package.
func Default(log *slog.Logger) (*Definition, error) {
	return Parse(log, defaultDefinition)
}

// Types returns the defined object type names in sorted order.
func (d *Definition) Types() []string {
	return slices.Sorted(maps.Keys(d.Structs))
}

// Method returns the named method of an object type.
func (d *Definition) Method(typeName, method string) (*Method, bool) {
	m, ok := d.Structs[typeName][method]

	return m, ok
}

// paramSchema builds the object schema that named call parameters must match.
func paramSchema(in []Param) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(in)),
	}

	for _, p := range in {
		prop := &jsonschema.Schema{}

		switch p.Type {
		case "string", "boolean", "integer", "number", "object", "array":
			prop.Type = p.Type
		}

		s.Properties[p.Name] = prop

		if !p.Optional && p.DefaultValue == nil {
			s.Required = append(s.Required, p.Name)
		}
	}

	return s
}
