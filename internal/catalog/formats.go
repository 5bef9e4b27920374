package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/iancoleman/orderedmap"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ReadYAML parses a YAML catalog document.
func ReadYAML(source string, data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, newErrorf(source, 0, 0, "parse yaml: %v", err)
	}
	return doc.build(source)
}

// ReadTOML parses a TOML catalog document using [[presets]] and
// [[presets.steps]] tables.
func ReadTOML(source string, data []byte) (*Catalog, error) {
	var doc document
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, newErrorf(source, 0, 0, "parse toml: %v", err)
	}
	return doc.build(source)
}

// ReadJSON parses a JSON catalog.
//
// Two layouts are accepted: the {"presets": [...]} document shared with the
// YAML and TOML loaders, and an object keyed by preset ID:
//
//	{
//	  "1": {"name": "Cold & Dark", "steps": [...]},
//	  "2": {"name": "Ready for Pushback", "steps": [...]}
//	}
//
// In the keyed layout the catalog order is the key order of the file. A
// top-level key that appears twice is an error.
func ReadJSON(source string, data []byte) (*Catalog, error) {
	om := orderedmap.New()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, newErrorf(source, 0, 0, "parse json: %v", err)
	}
	if key, ok := repeatedKey(data); ok {
		return nil, newErrorf(source, 0, 0, "duplicate key %q", key)
	}

	if _, ok := om.Get("presets"); ok {
		var doc document
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, newErrorf(source, 0, 0, "parse json: %v", err)
		}
		return doc.build(source)
	}

	var bodies map[string]presetDoc
	if err := json.Unmarshal(data, &bodies); err != nil {
		return nil, newErrorf(source, 0, 0, "parse json: %v", err)
	}

	var doc document
	for _, key := range om.Keys() {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, newErrorf(source, 0, 0, "preset key %q is not an integer", key)
		}
		p := bodies[key]
		if p.ID != 0 && p.ID != id {
			return nil, newErrorf(source, id, 0, "preset key %q does not match id %d", key, p.ID)
		}
		p.ID = id
		doc.Presets = append(doc.Presets, p)
	}
	return doc.build(source)
}

// repeatedKey returns the first top-level object key that occurs more than
// once in data. data must already be known to hold a valid JSON object.
func repeatedKey(data []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return "", false
	}

	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		key, _ := tok.(string)
		if seen[key] {
			return key, true
		}
		seen[key] = true

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return "", false
		}
	}
	return "", false
}
