// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalFieldsYAML encodes field list as YAML field document.
func MarshalFieldsYAML(fields []Field) ([]byte, error) {
	node, err := yamlNodeForValue(fieldsDocument(fields))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFields, err)
	}

	data, err := marshalYAMLNode(node)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFields, err)
	}

	return data, nil
}

// UnmarshalFieldsYAML decodes YAML field document into field list.
// Mapping key order is kept for passthrough keywords.
func UnmarshalFieldsYAML(data []byte) ([]Field, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFields, err)
	}

	value, err := valueFromYAMLNode(&document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFields, err)
	}

	return fieldsFromDocument(value)
}

// valueFromYAMLNode converts YAML node into JSON-like value using *Keywords for mappings.
func valueFromYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case 0:
		return nil, nil

	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return valueFromYAMLNode(node.Content[0])

	case yaml.AliasNode:
		return valueFromYAMLNode(node.Alias)

	case yaml.MappingNode:
		object := NewKeywords()
		for index := 0; index+1 < len(node.Content); index += 2 {
			keyNode := node.Content[index]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be scalar", keyNode.Line)
			}

			value, err := valueFromYAMLNode(node.Content[index+1])
			if err != nil {
				return nil, err
			}

			object.Set(keyNode.Value, value)
		}

		return object, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := valueFromYAMLNode(item)
			if err != nil {
				return nil, err
			}

			out = append(out, value)
		}

		return out, nil

	case yaml.ScalarNode:
		return scalarFromYAMLNode(node)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

// scalarFromYAMLNode resolves scalar by its tag; numbers become json.Number.
func scalarFromYAMLNode(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil

	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return nil, err
		}

		return value, nil

	case "!!int":
		var value int64
		if err := node.Decode(&value); err != nil {
			return nil, err
		}

		return json.Number(strconv.FormatInt(value, 10)), nil

	case "!!float":
		var value float64
		if err := node.Decode(&value); err != nil {
			return nil, err
		}

		if math.IsInf(value, 0) || math.IsNaN(value) {
			return nil, fmt.Errorf("line %d: %q is not a JSON number", node.Line, node.Value)
		}

		return json.Number(strconv.FormatFloat(value, 'g', -1, 64)), nil

	default:
		return node.Value, nil
	}
}
