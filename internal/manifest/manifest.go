// Package manifest reads already-resolved class metadata and turns it into the inputs
// of a generation pass: eligible class descriptors and the interface name map.
package manifest

import (
	"bytes"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/toyz/ifacegen/internal/errors"
)

// SchemaVersion is the newest manifest schema this build understands
const SchemaVersion = "v1.0.0"

// Manifest is one Class Member Source document
type Manifest struct {
	Schema     string            `yaml:"schema"`
	Interfaces map[string]string `yaml:"interfaces"` // extra class -> interface entries
	ValueTypes []string          `yaml:"valueTypes"` // structs and enums referenced by members
	Classes    []Class           `yaml:"classes"`

	// Path is the file the manifest was read from, "" for in-memory documents
	Path string `yaml:"-"`
}

// Class describes one class and its members
type Class struct {
	Name           string          `yaml:"name"`
	Namespace      string          `yaml:"namespace"`
	Generate       *bool           `yaml:"generate"`
	TypeParameters []TypeParameter `yaml:"typeParameters"`
	Members        []Member        `yaml:"members"`

	Line int `yaml:"-"`
}

// ShouldGenerate reports whether an interface is generated for the class. Classes
// generate unless they opt out.
func (c *Class) ShouldGenerate() bool {
	return c.Generate == nil || *c.Generate
}

// TypeParameter is a generic parameter with its constraints
type TypeParameter struct {
	Name        string   `yaml:"name"`
	Constraints []string `yaml:"constraints"` // constraint types as display text
	Special     []string `yaml:"special"`     // class, struct, notnull, unmanaged, new()
}

// Member kinds
const (
	KindMethod      = "method"
	KindProperty    = "property"
	KindConstructor = "constructor"
	KindOperator    = "operator"
	KindConversion  = "conversion"
	KindIndexer     = "indexer"
	KindEvent       = "event"
	KindField       = "field"
)

// Member is any declared member of a class. Only public, non-static methods and
// properties are projected; everything else is recorded so it can be skipped
// explicitly.
type Member struct {
	Kind           string          `yaml:"kind"`
	Name           string          `yaml:"name"`
	Accessibility  string          `yaml:"accessibility"` // C# default is private
	Static         bool            `yaml:"static"`
	Returns        string          `yaml:"returns"`
	Type           string          `yaml:"type"`
	Setter         string          `yaml:"setter"` // accessibility of the setter, "" or "none" when absent
	TypeParameters []TypeParameter `yaml:"typeParameters"`
	Parameters     []Parameter     `yaml:"parameters"`

	Line int `yaml:"-"`
}

// Parameter is one method parameter
type Parameter struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Modifier string `yaml:"modifier"` // ref, out, in, params
	Optional bool   `yaml:"optional"`
	Default  string `yaml:"default"` // "default" or "null"; derived from the type when empty
}

// Load reads and parses the manifest at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML or JSON manifest. Unknown keys are rejected at every level.
// path is only used for error locations.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, errors.WrapManifestError(path, "decode", err)
	}
	m.Path = path

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.WrapManifestError(path, "decode", err)
	}
	recordLines(&root, &m)

	if err := checkSchema(m.Schema); err != nil {
		return nil, errors.ManifestError(errors.SourceLocation{File: path}, "%s", err.Error()).
			WithContext("schema", m.Schema).
			WithSuggestion("Set schema to " + SchemaVersion)
	}
	return &m, nil
}

// recordLines copies the starting line of every class and member from the node tree
func recordLines(root *yaml.Node, m *Manifest) {
	classes := sequence(mappingValue(document(root), "classes"))
	for i := range m.Classes {
		if i >= len(classes) {
			return
		}
		m.Classes[i].Line = classes[i].Line

		members := sequence(mappingValue(classes[i], "members"))
		for j := range m.Classes[i].Members {
			if j >= len(members) {
				break
			}
			m.Classes[i].Members[j].Line = members[j].Line
		}
	}
}

func document(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return node
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func sequence(node *yaml.Node) []*yaml.Node {
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}
	return node.Content
}

// NormalizeSchema returns the canonical semver form of a schema string. An empty
// schema means the current version.
func NormalizeSchema(schema string) string {
	if schema == "" {
		return SchemaVersion
	}
	if !strings.HasPrefix(schema, "v") {
		schema = "v" + schema
	}
	return semver.Canonical(schema)
}

func checkSchema(schema string) error {
	v := NormalizeSchema(schema)
	switch {
	case v == "":
		return errors.NewValidationError("schema", schema, "not a semantic version")
	case semver.Major(v) != semver.Major(SchemaVersion):
		return errors.NewValidationError("schema", schema, "unsupported major version, expected "+semver.Major(SchemaVersion))
	}
	return nil
}

// semverNewer reports whether schema is a newer minor or patch release than this build
func semverNewer(schema string) bool {
	v := NormalizeSchema(schema)
	return v != "" && semver.Compare(v, SchemaVersion) > 0
}
