// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"sort"
	"strings"
)

// Memo keeps top-level schema keywords that the field list cannot hold,
// such as $schema, title, description, allOf and $defs.
//
// Memo is owned by the caller and passed explicitly to Generate.
type Memo struct {
	keywords *Keywords
}

// CaptureMemo stores every top-level keyword of schema except "properties".
func CaptureMemo(schema *Keywords) *Memo {
	if schema == nil {
		return nil
	}

	keywords := NewKeywords()
	for pair := schema.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == keywordProperties {
			continue
		}

		keywords.Set(pair.Key, CloneValue(pair.Value))
	}

	return &Memo{keywords: keywords}
}

// Keywords returns deep copy of remembered root keywords.
func (memo *Memo) Keywords() *Keywords {
	if memo == nil {
		return nil
	}

	return cloneKeywords(memo.keywords)
}

// Keyword returns one remembered root keyword.
func (memo *Memo) Keyword(key string) (any, bool) {
	if memo == nil {
		return nil, false
	}

	return keywordValue(memo.keywords, key)
}

// SchemaURI returns remembered "$schema" value.
func (memo *Memo) SchemaURI() string {
	value, _ := memo.Keyword("$schema")
	return strings.TrimSpace(asString(value))
}

// Definitions returns sorted names declared under "$defs" and "definitions".
func (memo *Memo) Definitions() []string {
	if memo == nil {
		return nil
	}

	seen := make(map[string]struct{})
	for _, keyword := range []string{"$defs", "definitions"} {
		for _, name := range keywordKeys(keywordObject(memo.keywords, keyword)) {
			seen[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}

	sort.Strings(out)
	return out
}

// DanglingReferences returns sorted unique local definition references used by
// fields that name a definition missing from memo.
func DanglingReferences(fields []Field, memo *Memo) []string {
	declared := make(map[string]struct{})
	for _, name := range memo.Definitions() {
		declared[name] = struct{}{}
	}

	dangling := make(map[string]struct{})
	walkFields(fields, func(field Field) {
		for _, ref := range collectReferences(field.Keywords) {
			name := DefinitionName(ref)
			if name == "" {
				continue
			}

			if _, ok := declared[name]; ok {
				continue
			}

			dangling[ref] = struct{}{}
		}
	})

	out := make([]string, 0, len(dangling))
	for ref := range dangling {
		out = append(out, ref)
	}

	sort.Strings(out)
	return out
}

// collectReferences returns every "$ref" string found in passthrough keywords.
func collectReferences(value any) []string {
	var out []string
	switch typed := value.(type) {
	case *Keywords:
		for pair := oldest(typed); pair != nil; pair = pair.Next() {
			if pair.Key == "$ref" {
				if ref := asString(pair.Value); ref != "" {
					out = append(out, ref)
				}

				continue
			}

			out = append(out, collectReferences(pair.Value)...)
		}
	case []any:
		for _, item := range typed {
			out = append(out, collectReferences(item)...)
		}
	}

	return out
}
