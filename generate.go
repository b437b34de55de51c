// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import "fmt"

// rootMemoSkipKeywords are memo keywords rebuilt from fields on generation.
var rootMemoSkipKeywords = map[string]struct{}{
	keywordType:                 {},
	keywordProperties:           {},
	keywordRequired:             {},
	keywordAdditionalProperties: {},
}

// fieldGenerator converts field trees back into ordered schema objects.
type fieldGenerator struct {
	policy DisclosurePolicy
	ctx    Context
}

// Generate converts field list into schema object.
//
// Generate never fails. An empty list returns the memo keywords unchanged
// when memo is set, so transient clears do not drop loaded metadata. Fields
// without a name are skipped.
func Generate(fields []Field, ctx Context, policy DisclosurePolicy, memo *Memo) *Keywords {
	return GenerateWithOptions(fields, memo, Options{Policy: policy, Context: ctx})
}

// GenerateWithOptions is Generate with full options, including KeepRootMetadata.
func GenerateWithOptions(fields []Field, memo *Memo, opt Options) *Keywords {
	opt = normalizeOptions(opt)
	if len(fields) == 0 && memo != nil {
		return memo.Keywords()
	}

	generator := fieldGenerator{policy: opt.Policy, ctx: opt.Context}

	root := NewKeywords()
	root.Set(keywordType, TypeObject)
	if opt.KeepRootMetadata && memo != nil {
		for pair := oldest(memo.keywords); pair != nil; pair = pair.Next() {
			if _, skip := rootMemoSkipKeywords[pair.Key]; skip {
				continue
			}

			root.Set(pair.Key, CloneValue(pair.Value))
		}
	}

	root.Set(keywordProperties, generator.generateProperties(fields))
	if required := requiredNames(fields); len(required) > 0 {
		root.Set(keywordRequired, required)
	}

	if !opt.Context.suppressAdditionalProperties() {
		for _, field := range fields {
			if field.AdditionalProperties == nil {
				continue
			}

			root.Set(keywordAdditionalProperties, CloneValue(field.AdditionalProperties))
			break
		}
	}

	return root
}

// GenerateText generates schema and encodes it as pretty JSON text.
// Repeated calls with equal input return byte-identical output.
func GenerateText(fields []Field, ctx Context, policy DisclosurePolicy, memo *Memo) ([]byte, error) {
	return encodeSchema(Generate(fields, ctx, policy, memo))
}

// encodeSchema encodes generated schema object.
func encodeSchema(schema *Keywords) ([]byte, error) {
	data, err := EncodeKeywords(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeSchema, err)
	}

	return data, nil
}

// generateProperties builds "properties" object from named fields.
func (generator fieldGenerator) generateProperties(fields []Field) *Keywords {
	out := NewKeywords()
	for _, field := range fields {
		if field.Name == "" {
			continue
		}

		out.Set(field.Name, generator.generateNode(field))
	}

	return out
}

// generateNode builds one property or items schema.
func (generator fieldGenerator) generateNode(field Field) *Keywords {
	out := NewKeywords()

	fieldType := field.Type
	if fieldType == "" {
		fieldType = TypeString
	}

	// arrays keep "type" even when items reference a definition
	if fieldType == TypeArray || !HasDefinitionReference(field) {
		out.Set(keywordType, field.typeValue(fieldType))
	}

	for pair := oldest(field.Keywords); pair != nil; pair = pair.Next() {
		if _, reserved := reservedKeywords[pair.Key]; reserved {
			continue
		}

		out.Set(pair.Key, CloneValue(pair.Value))
	}

	if value := generator.policy.OnGenerate(field, generator.ctx); value != nil {
		out.Set(keywordLimitDisclosure, value)
	}

	switch fieldType {
	case TypeObject:
		properties := generator.generateProperties(field.Properties)
		if properties.Len() > 0 {
			out.Set(keywordProperties, properties)
		}

		if required := requiredNames(field.Properties); len(required) > 0 {
			out.Set(keywordRequired, required)
		}

		if field.AdditionalProperties != nil && !generator.ctx.suppressAdditionalProperties() {
			out.Set(keywordAdditionalProperties, CloneValue(field.AdditionalProperties))
		}

	case TypeArray:
		out.Set(keywordItems, generator.generateItems(field.Items))
	}

	return out
}

// generateItems builds "items" value: object for single schema, array for tuple.
func (generator fieldGenerator) generateItems(items *Items) any {
	switch {
	case items == nil:
		return defaultItemsSchema()
	case items.Single != nil:
		return generator.generateNode(*items.Single)
	case items.Tuple != nil:
		out := make([]any, 0, len(items.Tuple))
		for _, item := range items.Tuple {
			out = append(out, generator.generateNode(item))
		}

		return out
	default:
		return defaultItemsSchema()
	}
}

// requiredNames returns names of required fields in display order.
func requiredNames(fields []Field) []any {
	var out []any
	for _, field := range fields {
		if !field.Required || field.Name == "" {
			continue
		}

		out = append(out, field.Name)
	}

	return out
}
