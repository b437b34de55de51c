// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	// ExampleModeAll builds example with all declared fields.
	ExampleModeAll ExampleMode = "all"
	// ExampleModeRequired builds example with required fields only.
	ExampleModeRequired ExampleMode = "required"
)

// ExampleMode configures example generation field coverage.
type ExampleMode string

const (
	// ExampleFormatJSON encodes example payload as JSON.
	ExampleFormatJSON ExampleFormat = "json"
	// ExampleFormatYAML encodes example payload as YAML.
	ExampleFormatYAML ExampleFormat = "yaml"
)

// ExampleFormat configures output format for generated example payload.
type ExampleFormat string

// exampleScalarPlaceholders provides fallback values for scalar field types.
var exampleScalarPlaceholders = map[string]any{
	TypeString:  "<string>",
	TypeNumber:  json.Number("0"),
	"integer":   json.Number("0"),
	TypeBoolean: false,
	"null":      nil,
}

// exampleBuilder converts field trees into sample credential payloads.
type exampleBuilder struct {
	memo       *Memo
	parser     *fieldParser
	activeRefs map[string]int
	mode       ExampleMode
}

// GenerateExample returns sample payload for field list encoded in selected format.
//
// Memo, when set, resolves local "$ref" fields against remembered definitions.
// Payload keys follow field list order.
func GenerateExample(fields []Field, memo *Memo, mode ExampleMode, format ExampleFormat) ([]byte, error) {
	mode, err := normalizeExampleMode(mode)
	if err != nil {
		return nil, err
	}

	format, err = normalizeExampleFormat(format)
	if err != nil {
		return nil, err
	}

	builder := newExampleBuilder(memo, mode)
	value := builder.buildObject(fields)

	switch format {
	case ExampleFormatJSON:
		data, err := EncodeKeywords(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeExampleJSON, err)
		}

		return data, nil

	case ExampleFormatYAML:
		rootNode, err := yamlNodeForValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
		}

		builder.annotateMapping(rootNode, fields)

		data, err := marshalYAMLNode(rootNode)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
		}

		return data, nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownExampleFormat, format)
	}
}

// newExampleBuilder creates builder with its own reference guard.
func newExampleBuilder(memo *Memo, mode ExampleMode) *exampleBuilder {
	return &exampleBuilder{
		memo:       memo,
		mode:       mode,
		parser:     newFieldParser(normalizeOptions(Options{})),
		activeRefs: make(map[string]int),
	}
}

// normalizeExampleMode validates and normalizes caller mode value.
func normalizeExampleMode(mode ExampleMode) (ExampleMode, error) {
	normalized := ExampleMode(strings.ToLower(strings.TrimSpace(string(mode))))
	switch normalized {
	case "":
		return ExampleModeAll, nil
	case ExampleModeAll, ExampleModeRequired:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleMode, mode)
	}
}

// normalizeExampleFormat validates and normalizes caller format value.
func normalizeExampleFormat(format ExampleFormat) (ExampleFormat, error) {
	normalized := ExampleFormat(strings.ToLower(strings.TrimSpace(string(format))))
	switch normalized {
	case "":
		return ExampleFormatJSON, nil
	case ExampleFormatJSON, ExampleFormatYAML:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleFormat, format)
	}
}

// buildObject materializes ordered object from named child fields.
func (builder *exampleBuilder) buildObject(fields []Field) *Keywords {
	out := NewKeywords()
	for _, field := range fields {
		if field.Name == "" {
			continue
		}

		if builder.mode == ExampleModeRequired && !field.Required {
			continue
		}

		out.Set(field.Name, builder.buildField(field))
	}

	return out
}

// buildField recursively builds example value for one field.
func (builder *exampleBuilder) buildField(field Field) any {
	if resolved, release, ok := builder.resolveReference(field); ok {
		defer release()
		return builder.buildField(resolved)
	}

	switch field.Type {
	case TypeObject:
		if len(field.Properties) > 0 {
			return builder.buildObject(field.Properties)
		}
	case TypeArray:
		return builder.buildArray(field)
	}

	if value, ok := explicitExampleValue(field); ok {
		return CloneValue(value)
	}

	if value, ok := builder.buildCompositionFallback(field); ok {
		return value
	}

	if field.Type == TypeObject {
		return NewKeywords()
	}

	return exampleScalarPlaceholders[field.Type]
}

// buildArray materializes array value from explicit values or items fields.
func (builder *exampleBuilder) buildArray(field Field) []any {
	if value, ok := explicitExampleValue(field); ok {
		if items, ok := value.([]any); ok {
			return CloneValue(items).([]any)
		}
	}

	if field.Items == nil {
		return []any{}
	}

	if field.Items.Single != nil {
		return []any{builder.buildField(*field.Items.Single)}
	}

	out := make([]any, 0, len(field.Items.Tuple))
	for _, item := range field.Items.Tuple {
		out = append(out, builder.buildField(item))
	}

	return out
}

// buildCompositionFallback builds value from first schema of oneOf/anyOf/allOf.
func (builder *exampleBuilder) buildCompositionFallback(field Field) (any, bool) {
	for _, keyword := range []string{"oneOf", "anyOf", "allOf"} {
		value, _ := field.Keyword(keyword)
		for _, entry := range asSlice(value) {
			node, ok := entry.(*Keywords)
			if !ok {
				continue
			}

			return builder.buildField(builder.parser.parseNode(node, false, keyword, 0)), true
		}
	}

	return nil, false
}

// resolveReference returns field parsed from local definition referenced by
// field "$ref". Fields with own children are never resolved. Cyclic
// references resolve to an untyped field that builds as null.
func (builder *exampleBuilder) resolveReference(field Field) (Field, func(), bool) {
	ref := strings.TrimSpace(keywordString(field.Keywords, "$ref"))
	if ref == "" || len(field.Properties) > 0 {
		return Field{}, nil, false
	}

	node := builder.definition(ref)
	if node == nil {
		return Field{}, nil, false
	}

	if builder.activeRefs[ref] > 0 {
		return Field{}, func() {}, true
	}

	builder.activeRefs[ref]++
	release := func() {
		builder.activeRefs[ref]--
		if builder.activeRefs[ref] <= 0 {
			delete(builder.activeRefs, ref)
		}
	}

	resolved := builder.parser.parseNode(node, false, ref, 0)
	resolved.Name = field.Name
	resolved.Required = field.Required
	return resolved, release, true
}

// definition returns remembered definition schema addressed by local ref.
func (builder *exampleBuilder) definition(ref string) *Keywords {
	name := DefinitionName(ref)
	if name == "" {
		return nil
	}

	container := "definitions"
	if strings.HasPrefix(ref, "#/$defs/") {
		container = "$defs"
	}

	value, _ := builder.memo.Keyword(container)
	definitions, _ := value.(*Keywords)
	return keywordObject(definitions, name)
}

// explicitExampleValue returns preferred explicit value from passthrough keywords:
// default, first examples entry, example, const, then first enum entry.
func explicitExampleValue(field Field) (any, bool) {
	if value, ok := field.Keyword("default"); ok {
		return value, true
	}

	if examples, _ := field.Keyword("examples"); len(asSlice(examples)) > 0 {
		return asSlice(examples)[0], true
	}

	if value, ok := field.Keyword("example"); ok {
		return value, true
	}

	if value, ok := field.Keyword("const"); ok {
		return value, true
	}

	if values, _ := field.Keyword("enum"); len(asSlice(values)) > 0 {
		return asSlice(values)[0], true
	}

	return nil, false
}

// annotateMapping assigns field title/description comments to YAML map keys.
func (builder *exampleBuilder) annotateMapping(node *yaml.Node, fields []Field) {
	if node.Kind != yaml.MappingNode {
		return
	}

	for index := 0; index+1 < len(node.Content); index += 2 {
		keyNode := node.Content[index]
		valueNode := node.Content[index+1]

		field, ok := fieldByName(fields, keyNode.Value)
		if !ok {
			continue
		}

		if comment := fieldComment(field); comment != "" {
			keyNode.HeadComment = comment
		}

		builder.annotateValue(valueNode, field)
	}
}

// annotateValue descends into YAML value built for field.
func (builder *exampleBuilder) annotateValue(node *yaml.Node, field Field) {
	if resolved, release, ok := builder.resolveReference(field); ok {
		defer release()
		field = resolved
	}

	switch node.Kind {
	case yaml.MappingNode:
		builder.annotateMapping(node, field.Properties)
	case yaml.SequenceNode:
		if field.Items == nil {
			return
		}

		for index, item := range node.Content {
			switch {
			case field.Items.Single != nil:
				builder.annotateValue(item, *field.Items.Single)
			case index < len(field.Items.Tuple):
				builder.annotateValue(item, field.Items.Tuple[index])
			}
		}
	}
}

// fieldByName returns first field with name.
func fieldByName(fields []Field, name string) (Field, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}

	return Field{}, false
}

// fieldComment builds YAML key comment from field title and description.
func fieldComment(field Field) string {
	titleValue, _ := field.Keyword("title")
	descriptionValue, _ := field.Keyword("description")
	title := strings.TrimSpace(asString(titleValue))
	description := strings.TrimSpace(asString(descriptionValue))

	switch {
	case title == "" && description == "":
		return ""
	case title == "":
		return normalizeYAMLComment(description)
	case description == "", title == description:
		return normalizeYAMLComment(title)
	default:
		return normalizeYAMLComment(title + "\n" + description)
	}
}

// normalizeYAMLComment drops blank lines from comment body.
func normalizeYAMLComment(comment string) string {
	lines := strings.Split(comment, "\n")
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		normalized = append(normalized, line)
	}

	return strings.Join(normalized, "\n")
}

// marshalYAMLNode serializes yaml.Node tree as YAML document with 2-space indent.
func marshalYAMLNode(node *yaml.Node) ([]byte, error) {
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{node},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// yamlNodeForValue builds deterministic yaml.Node tree from JSON-like value.
func yamlNodeForValue(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case nil, ExplicitNull:
		return yamlScalarNode("!!null", "null"), nil

	case bool:
		return yamlScalarNode("!!bool", strconv.FormatBool(typed)), nil

	case string:
		return yamlScalarNode("!!str", typed), nil

	case json.Number:
		if int64Value, err := typed.Int64(); err == nil {
			return yamlScalarNode("!!int", strconv.FormatInt(int64Value, 10)), nil
		}

		float64Value, err := typed.Float64()
		if err != nil {
			return nil, err
		}

		return yamlScalarNode("!!float", strconv.FormatFloat(float64Value, 'g', -1, 64)), nil

	case *Keywords:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := oldest(typed); pair != nil; pair = pair.Next() {
			valueNode, err := yamlNodeForValue(pair.Value)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, yamlScalarNode("!!str", pair.Key), valueNode)
		}

		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			valueNode, err := yamlNodeForValue(item)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, valueNode)
		}

		return node, nil

	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

// yamlScalarNode creates one scalar yaml.Node with explicit tag.
func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Value: value,
	}
}
