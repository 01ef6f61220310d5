package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"practice-api-tester/internal/errs"
	"practice-api-tester/internal/resource"
	"practice-api-tester/internal/types"
)

// ResourceName is the logical name of the fixture document
const ResourceName = "data/tests-data.json"

// AlternateNames are tried, in order, when ResourceName is not found
var AlternateNames = []string{"data/tests-data.yaml", "data/tests-data.yml"}

// Format identifies how a fixture document is encoded
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the parsed fixture tree: resource -> scenario -> flat field map.
// It is never mutated after loading.
type Document struct {
	root   map[string]interface{}
	origin string
}

// Load reads data/tests-data.json from root, falling back to
// src/test/resources/data/tests-data.json. When neither exists the YAML
// AlternateNames are tried the same way. A document that exists but does not
// parse stops the search.
func Load(root fs.FS) (*Document, error) {
	doc, err := LoadSource(resource.NewSource(root, ResourceName))
	if !errors.Is(err, errs.ErrNotFound) {
		return doc, err
	}
	for _, name := range AlternateNames {
		alt, altErr := LoadSource(resource.NewSource(root, name))
		if !errors.Is(altErr, errs.ErrNotFound) {
			return alt, altErr
		}
	}
	return nil, err
}

// LoadSource reads and parses the fixture document described by src
func LoadSource(src resource.Source) (*Document, error) {
	data, origin, err := src.Read()
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, FormatFor(src.Name))
	if err != nil {
		return nil, errs.ResourceUnreadable(src.Name, err)
	}
	doc.origin = origin
	return doc, nil
}

// FormatFor picks the decoder from a resource name's extension
func FormatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a fixture document
func Parse(data []byte, format Format) (*Document, error) {
	var root map[string]interface{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse fixture yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&root); err != nil {
			return nil, fmt.Errorf("failed to parse fixture json: %w", err)
		}
	}
	if root == nil {
		root = map[string]interface{}{}
	}
	return &Document{root: root, origin: string(format)}, nil
}

// FromMap wraps an already-built tree. The map must not be modified afterwards.
func FromMap(root map[string]interface{}) *Document {
	if root == nil {
		root = map[string]interface{}{}
	}
	return &Document{root: root, origin: "memory"}
}

// Origin describes where the document was loaded from
func (d *Document) Origin() string {
	return d.origin
}

// Resources returns the top-level resource names
func (d *Document) Resources() []string {
	names := make([]string, 0, len(d.root))
	for k := range d.root {
		names = append(names, k)
	}
	return names
}

// Extract returns a copy of the flat field map at a dotted path such as
// "posts.update". An absent subtree yields an empty map.
func (d *Document) Extract(p string) map[string]interface{} {
	node, ok := d.lookup(p)
	if !ok {
		return map[string]interface{}{}
	}
	m, ok := asMap(node)
	if !ok {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Has reports whether a subtree exists at the dotted path
func (d *Document) Has(p string) bool {
	_, ok := d.lookup(p)
	return ok
}

// CreateData returns the create dataset of a resource
func (d *Document) CreateData(res types.Resource) map[string]interface{} {
	return d.Extract(types.ScenarioPath(res, types.Create))
}

// UpdateData returns the update dataset of a resource
func (d *Document) UpdateData(res types.Resource) map[string]interface{} {
	return d.Extract(types.ScenarioPath(res, types.Update))
}

// PatchData returns the partial-update dataset of a resource
func (d *Document) PatchData(res types.Resource) map[string]interface{} {
	return d.Extract(types.ScenarioPath(res, types.Patch))
}

// Scenario returns the dataset for a resource operation, failing when the
// scenario group is absent or empty
func (d *Document) Scenario(res types.Resource, op types.Operation) (map[string]interface{}, error) {
	scope := types.ScenarioPath(res, op)
	if !d.Has(scope) {
		return nil, &errs.UsageError{Scope: scope, Message: "scenario is not defined in the fixture document"}
	}
	fields := d.Extract(scope)
	if len(fields) == 0 {
		return nil, &errs.UsageError{Scope: scope, Message: "scenario has no fields"}
	}
	return fields, nil
}

func (d *Document) lookup(p string) (interface{}, bool) {
	var node interface{} = d.root
	for _, part := range strings.Split(p, ".") {
		m, ok := asMap(node)
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// asMap accepts both JSON and YAML decoded objects
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}
