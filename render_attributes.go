// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// renderedKeywords are passthrough keywords with a dedicated attribute line.
var renderedKeywords = map[string]struct{}{
	"$ref":        {},
	"$comment":    {},
	"title":       {},
	"description": {},
	"default":     {},
	"examples":    {},
	"example":     {},
	"enum":        {},
	"const":       {},
	"format":      {},
	"anyOf":       {},
	"oneOf":       {},
	"allOf":       {},
	"deprecated":  {},
	"readOnly":    {},
	"writeOnly":   {},
}

// constraintKeywords are rendered in fixed order as one "Constraints" line.
var constraintKeywords = []string{
	"minimum",
	"maximum",
	"exclusiveMinimum",
	"exclusiveMaximum",
	"multipleOf",
	"minLength",
	"maxLength",
	"pattern",
	"minItems",
	"maxItems",
	"uniqueItems",
	"minProperties",
	"maxProperties",
}

// fieldAttributes renders flat attribute list for one field.
func fieldAttributes(field Field, view fieldView) []attributeView {
	out := make([]attributeView, 0, 16)
	out = append(out, attributeView{Name: "Type", Value: inlineCode(view.Type)})
	if view.Required != "-" {
		out = append(out, attributeView{Name: "Required", Value: view.Required})
	}

	if view.LimitDisclosure != "-" {
		out = append(out, attributeView{Name: "Limit disclosure", Value: view.LimitDisclosure})
	}

	if value := keywordString(field.Keywords, "$ref"); value != "" {
		out = append(out, attributeView{Name: "Reference", Value: inlineCode(value)})
	}

	if value := keywordString(field.Keywords, "title"); value != "" {
		out = append(out, attributeView{Name: "Title", Value: inlineCode(value)})
	}

	if value, ok := field.Keyword("default"); ok {
		out = append(out, attributeView{Name: "Default", Value: inlineCode(mustJSONInline(value))})
	}

	if value, _ := field.Keyword("enum"); len(asSlice(value)) > 0 {
		out = append(out, attributeView{Name: "Enum", Value: jsonList(asSlice(value))})
	}

	if value, ok := field.Keyword("const"); ok {
		out = append(out, attributeView{Name: "Const", Value: inlineCode(mustJSONInline(value))})
	}

	if value, _ := field.Keyword("examples"); len(asSlice(value)) > 0 {
		out = append(out, attributeView{Name: "Examples", Value: jsonList(asSlice(value))})
	}

	if value := keywordString(field.Keywords, "format"); value != "" {
		out = append(out, attributeView{Name: "Format", Value: inlineCode(value)})
	}

	for _, keyword := range []string{"deprecated", "readOnly", "writeOnly"} {
		value, _ := field.Keyword(keyword)
		if flag, ok := value.(bool); ok {
			out = append(out, attributeView{Name: keywordTitle(keyword), Value: yesNo(flag)})
		}
	}

	if composition := compositionSummary(field.Keywords); composition != "" {
		out = append(out, attributeView{Name: "Composition", Value: composition})
	}

	if field.AdditionalProperties != nil {
		out = append(out, attributeView{Name: "Additional properties", Value: summarizeSchemaLike(field.AdditionalProperties)})
	}

	if constraints := constraintList(field.Keywords); len(constraints) > 0 {
		out = append(out, attributeView{Name: "Constraints", Value: strings.Join(constraints, "; ")})
	}

	if value := keywordString(field.Keywords, "$comment"); value != "" {
		out = append(out, attributeView{Name: "Comment", Value: inlineCode(value)})
	}

	if other := otherKeywordList(field.Keywords); len(other) > 0 {
		out = append(out, attributeView{Name: "Other keywords", Value: strings.Join(other, "; ")})
	}

	return out
}

// keywordTitle turns camelCase keyword into sentence-case attribute name.
func keywordTitle(keyword string) string {
	var out strings.Builder
	for index, r := range keyword {
		switch {
		case index == 0:
			out.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			out.WriteByte(' ')
			out.WriteString(strings.ToLower(string(r)))
		default:
			out.WriteRune(r)
		}
	}

	return out.String()
}

// summarizeSchemaLike provides compact markdown text for schema-like value.
func summarizeSchemaLike(value any) string {
	switch typed := value.(type) {
	case bool:
		return "boolean schema=" + strconv.FormatBool(typed)
	case *Keywords:
		if ref := keywordString(typed, "$ref"); ref != "" {
			return "reference " + inlineCode(ref)
		}

		if explicit, ok := explicitType(typed); ok {
			return "schema type " + inlineCode(explicit)
		}

		return "inline schema"
	default:
		return inlineCode(mustJSONInline(typed))
	}
}

// compositionSummary renders one-line summary for allOf/anyOf/oneOf combinations.
func compositionSummary(node *Keywords) string {
	items := make([]string, 0, len(compositionKeywords))
	for _, keyword := range compositionKeywords {
		value, _ := keywordValue(node, keyword)
		if entries := asSlice(value); len(entries) > 0 {
			items = append(items, keyword+"="+strconv.Itoa(len(entries)))
		}
	}

	return strings.Join(items, "; ")
}

// constraintList renders validation constraints as deterministic key/value pairs.
func constraintList(node *Keywords) []string {
	out := make([]string, 0, len(constraintKeywords))
	for _, key := range constraintKeywords {
		value, ok := keywordValue(node, key)
		if !ok {
			continue
		}

		out = append(out, key+"="+mustJSONInline(value))
	}

	return out
}

// otherKeywordList lists passthrough keywords without a dedicated attribute, in source order.
func otherKeywordList(node *Keywords) []string {
	out := make([]string, 0)
	for pair := oldest(node); pair != nil; pair = pair.Next() {
		if _, ok := renderedKeywords[pair.Key]; ok {
			continue
		}

		if slices.Contains(constraintKeywords, pair.Key) {
			continue
		}

		out = append(out, pair.Key+"="+mustJSONInline(pair.Value))
	}

	return out
}

// inlineCode wraps text into escaped inline code span.
func inlineCode(value string) string {
	return fmt.Sprintf("`%s`", escapeInline(value))
}

// jsonList renders JSON values list into comma-separated inline code tokens.
func jsonList(values []any) string {
	parts := make([]string, 0, len(values))
	for _, item := range values {
		parts = append(parts, inlineCode(mustJSONInline(item)))
	}

	return strings.Join(parts, ", ")
}
