// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"slices"
	"strings"

	"github.com/go-openapi/jsonreference"
)

// compositionKeywords are the combinator keywords checked for type inference and refs.
var compositionKeywords = []string{"anyOf", "oneOf", "allOf"}

// definitionPrefixes are local JSON pointer prefixes of schema definitions.
var definitionPrefixes = []string{"#/$defs/", "#/definitions/"}

// DetectType returns schema type for node, inferring it from structure when
// "type" is missing. It never fails: unknown shapes fall back to "string".
func DetectType(node *Keywords) string {
	if explicit, ok := explicitType(node); ok {
		return explicit
	}

	for _, keyword := range compositionKeywords {
		if hasKeyword(node, keyword) {
			return TypeObject
		}
	}

	if hasKeyword(node, "$ref") {
		return TypeObject
	}

	if hasKeyword(node, keywordProperties) {
		return TypeObject
	}

	if hasKeyword(node, keywordItems) {
		return TypeArray
	}

	return TypeString
}

// explicitType returns declared node type. For type unions the first
// non-null member wins, "null" only when nothing else is listed.
func explicitType(node *Keywords) (string, bool) {
	value, exists := keywordValue(node, keywordType)
	if !exists {
		return "", false
	}

	if text := asString(value); text != "" {
		return text, true
	}

	members := asStringSlice(value)
	for _, member := range members {
		if member != "" && member != "null" {
			return member, true
		}
	}

	if slices.Contains(members, "null") {
		return "null", true
	}

	return "", false
}

// declaredType returns explicit node type and, for a type array, its string
// members in source order. Type is empty when node declares no usable type.
func declaredType(node *Keywords) (string, []string) {
	explicit, ok := explicitType(node)
	if !ok {
		return "", nil
	}

	value, _ := keywordValue(node, keywordType)
	if _, isArray := value.([]any); isArray {
		return explicit, asStringSlice(value)
	}

	return explicit, nil
}

// HasDefinitionReference reports whether field type is decided by a local
// definition reference, so a stored "type" must not be emitted next to it.
//
// Direct "$ref" and "$ref" entries of anyOf/oneOf/allOf are checked on the
// field and on its single items schema. Array fields whose items carry
// anyOf/oneOf/allOf report false. Generation keeps "type" on arrays anyway.
func HasDefinitionReference(field Field) bool {
	var itemKeywords *Keywords
	if field.Items != nil && field.Items.Single != nil {
		itemKeywords = field.Items.Single.Keywords
	}

	if field.Type == TypeArray && itemKeywords != nil {
		for _, keyword := range compositionKeywords {
			if hasKeyword(itemKeywords, keyword) {
				return false
			}
		}
	}

	if IsDefinitionRef(keywordString(field.Keywords, "$ref")) || IsDefinitionRef(keywordString(itemKeywords, "$ref")) {
		return true
	}

	return compositionHasDefinitionRef(field.Keywords) || compositionHasDefinitionRef(itemKeywords)
}

// compositionHasDefinitionRef reports whether any anyOf/oneOf/allOf entry refs a definition.
func compositionHasDefinitionRef(node *Keywords) bool {
	for _, keyword := range compositionKeywords {
		value, _ := keywordValue(node, keyword)
		for _, entry := range asSlice(value) {
			object, ok := entry.(*Keywords)
			if !ok {
				continue
			}

			if IsDefinitionRef(keywordString(object, "$ref")) {
				return true
			}
		}
	}

	return false
}

// IsDefinitionRef reports whether ref points into local "$defs" or "definitions".
func IsDefinitionRef(ref string) bool {
	for _, prefix := range definitionPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}

	return false
}

// DefinitionName extracts definition name from local definition reference.
// It returns empty string for remote references and non-definition pointers.
func DefinitionName(ref string) string {
	ref = strings.TrimSpace(ref)
	if !IsDefinitionRef(ref) {
		return ""
	}

	parsed, err := jsonreference.New(ref)
	if err != nil || !parsed.HasFragmentOnly {
		return ""
	}

	fragment := strings.TrimPrefix(parsed.GetURL().Fragment, "/")
	parts := strings.Split(fragment, "/")
	if len(parts) < 2 {
		return ""
	}

	return decodeJSONPointerToken(parts[1])
}

// decodeJSONPointerToken unescapes one JSON pointer token.
func decodeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}
