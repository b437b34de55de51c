// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"log/slog"
	"slices"
	"strings"
)

// MaxDepth limits field tree nesting accepted by the parser.
const MaxDepth = 256

// fieldParser converts ordered schema objects into field trees.
type fieldParser struct {
	policy DisclosurePolicy
	logger *slog.Logger
	ctx    Context
}

// Parse converts schema "properties" into ordered field list.
//
// Parse never fails: a schema without object "properties" yields an empty
// list, and nodes without a usable "type" get one from DetectType.
func Parse(schema *Keywords, ctx Context, policy DisclosurePolicy) []Field {
	opt := normalizeOptions(Options{Policy: policy, Context: ctx})
	return newFieldParser(opt).parseRoot(schema)
}

// ParseText decodes schema text, captures root memo and parses field list.
// Only ErrMalformedInput and ErrSchemaRootType are returned.
func ParseText(text []byte, ctx Context, policy DisclosurePolicy) ([]Field, *Memo, error) {
	schema, err := DecodeKeywords(text)
	if err != nil {
		return nil, nil, err
	}

	return Parse(schema, ctx, policy), CaptureMemo(schema), nil
}

// newFieldParser builds parser from normalized options.
func newFieldParser(opt Options) *fieldParser {
	return &fieldParser{
		policy: opt.Policy,
		logger: opt.Logger,
		ctx:    opt.Context,
	}
}

// parseRoot parses top-level schema properties.
func (parser *fieldParser) parseRoot(schema *Keywords) []Field {
	properties := keywordObject(schema, keywordProperties)
	if properties == nil {
		if hasKeyword(schema, keywordProperties) {
			parser.logger.Warn("schema properties is not an object; using empty field list")
		}

		return []Field{}
	}

	required, _ := keywordValue(schema, keywordRequired)
	return parser.parseProperties(properties, asStringSlice(required), "", 0)
}

// parseProperties builds one field per property in source key order.
func (parser *fieldParser) parseProperties(properties *Keywords, required []string, path string, depth int) []Field {
	out := make([]Field, 0, properties.Len())
	for pair := properties.Oldest(); pair != nil; pair = pair.Next() {
		node, ok := pair.Value.(*Keywords)
		if !ok {
			parser.logger.Debug("property schema is not an object; treating as empty schema", "path", appendPath(path, pair.Key))
			node = NewKeywords()
		}

		field := parser.parseNode(node, false, appendPath(path, pair.Key), depth)
		field.Name = pair.Key
		field.Required = slices.Contains(required, pair.Key)
		out = append(out, field)
	}

	return out
}

// parseNode converts one property or items schema into field without name.
func (parser *fieldParser) parseNode(node *Keywords, item bool, path string, depth int) Field {
	field := Field{}
	if explicit, union := declaredType(node); explicit != "" {
		field.Type = explicit
		field.TypeUnion = union
	} else {
		field.Type = DetectType(node)
		parser.logger.Debug("inferred field type", "path", path, "type", field.Type)
	}

	for pair := node.Oldest(); pair != nil; pair = pair.Next() {
		if _, reserved := reservedKeywords[pair.Key]; reserved {
			continue
		}

		field.SetKeyword(pair.Key, CloneValue(pair.Value))
	}

	explicit, present := node.Get(keywordLimitDisclosure)
	field.LimitDisclosure = parser.policy.OnParse(DisclosureNode{
		Value:   explicit,
		Present: present,
		Type:    field.Type,
		Item:    item,
	}, parser.ctx)

	if depth >= MaxDepth {
		parser.logger.Warn("field nesting exceeds max depth; children dropped", "path", path, "max_depth", MaxDepth)
		return field
	}

	switch field.Type {
	case TypeObject:
		properties := keywordObject(node, keywordProperties)
		if properties == nil {
			properties = NewKeywords()
		}

		required, _ := node.Get(keywordRequired)
		field.Properties = parser.parseProperties(properties, asStringSlice(required), path, depth+1)

		if value, ok := node.Get(keywordAdditionalProperties); ok && !parser.ctx.suppressAdditionalProperties() {
			field.AdditionalProperties = presentValue(value)
		}

	case TypeArray:
		items, ok := node.Get(keywordItems)
		if !ok || items == nil {
			items = defaultItemsSchema()
		}

		field.Items = parser.parseItems(items, appendPath(path, "[]"), depth+1)
	}

	return field
}

// parseItems parses single items schema or ordered items sequence.
func (parser *fieldParser) parseItems(value any, path string, depth int) *Items {
	switch typed := value.(type) {
	case []any:
		tuple := make([]Field, 0, len(typed))
		for _, entry := range typed {
			node, ok := entry.(*Keywords)
			if !ok {
				node = NewKeywords()
			}

			tuple = append(tuple, parser.parseNode(node, true, path, depth))
		}

		return &Items{Tuple: tuple}
	case *Keywords:
		single := parser.parseNode(typed, true, path, depth)
		return &Items{Single: &single}
	default:
		parser.logger.Debug("items schema is not an object; using string items", "path", path)
		single := parser.parseNode(defaultItemsSchema(), true, path, depth)
		return &Items{Single: &single}
	}
}

// defaultItemsSchema returns items schema used when array has no items.
func defaultItemsSchema() *Keywords {
	items := NewKeywords()
	items.Set(keywordType, TypeString)
	return items
}

// appendPath joins path segments with a dot; index segments such as "[]"
// or "[0]" attach directly.
func appendPath(base, segment string) string {
	if base == "" {
		return segment
	}

	if segment == "" {
		return base
	}

	if strings.HasPrefix(segment, "[") {
		return base + segment
	}

	return base + "." + segment
}
