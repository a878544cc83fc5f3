// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vizspec

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema document for VizSpec 1.0.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return compiledSchema, schemaErr
}

// Parse validates raw input and returns a normalized VizSpec.
//
// raw may be a JSON string, []byte, json.RawMessage, map[string]any, VizSpec or
// *VizSpec. Structural checks run first; cross-field checks run only when the
// structure is sound, so callers can tell "malformed" from "inconsistent".
func Parse(raw any) (*VizSpec, error) {
	data, err := toJSON(raw)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SpecParseError{Err: err}
	}

	if issues, err := validateStructure(doc); err != nil {
		return nil, err
	} else if len(issues) > 0 {
		return nil, newValidationError(StageStructural, issues)
	}

	spec, issues := decodeSpec(doc)
	if len(issues) > 0 {
		return nil, newValidationError(StageStructural, issues)
	}

	if issues := checkColors(spec); len(issues) > 0 {
		return nil, newValidationError(StageStructural, issues)
	}

	normalize(spec)

	if issues := checkSemantics(spec); len(issues) > 0 {
		return nil, newValidationError(StageSemantic, issues)
	}
	return spec, nil
}

// decodeSpec decodes the schema-checked document into a VizSpec. The document
// is re-encoded first so integral numbers written as 6.0 decode into int
// fields the schema already accepted as integers.
func decodeSpec(doc any) (*VizSpec, []Issue) {
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, []Issue{{Path: "(root)", Message: err.Error()}}
	}
	var spec VizSpec
	if err := json.Unmarshal(normalized, &spec); err != nil {
		path := "(root)"
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			path = typeErr.Field
		}
		return nil, []Issue{{Path: path, Message: err.Error()}}
	}
	return &spec, nil
}

// ParseYAML parses a YAML-encoded spec.
func ParseYAML(data []byte) (*VizSpec, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SpecParseError{Err: err}
	}
	if doc == nil {
		return nil, &SpecParseError{Err: fmt.Errorf("empty document")}
	}
	converted, err := yamlToJSONValue(doc)
	if err != nil {
		return nil, &SpecParseError{Err: err}
	}
	m, ok := converted.(map[string]any)
	if !ok {
		return nil, &SpecParseError{Err: fmt.Errorf("spec must be a mapping, got %T", converted)}
	}
	return Parse(m)
}

// ParseFile reads a spec from disk. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func ParseFile(path string) (*VizSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

func toJSON(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case nil:
		return nil, &SpecParseError{Err: fmt.Errorf("spec is nil")}
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	case *VizSpec:
		if v == nil {
			return nil, &SpecParseError{Err: fmt.Errorf("spec is nil")}
		}
		return marshalForParse(v)
	case VizSpec:
		return marshalForParse(&v)
	case map[string]any:
		return marshalForParse(v)
	default:
		return nil, &SpecParseError{Err: fmt.Errorf("unsupported spec input type %T", raw)}
	}
}

func marshalForParse(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &SpecParseError{Err: err}
	}
	return b, nil
}

func validateStructure(doc any) ([]Issue, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to load VizSpec schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &SpecParseError{Err: err}
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		issues = append(issues, Issue{Path: re.Field(), Message: re.Description()})
	}
	return issues, nil
}

// yamlToJSONValue converts yaml.v3 output into values encoding/json accepts.
func yamlToJSONValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			c, err := yamlToJSONValue(val)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", k)
			}
			c, err := yamlToJSONValue(val)
			if err != nil {
				return nil, err
			}
			out[key] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			c, err := yamlToJSONValue(val)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	default:
		return v, nil
	}
}
