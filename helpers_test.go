// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// keywordEntry is comparable form of one ordered object member.
type keywordEntry struct {
	Key   string
	Value any
}

// fieldCmpOptions compare ordered objects by members in order and treat nil and empty slices alike.
var fieldCmpOptions = cmp.Options{
	cmp.Transformer("keywords", func(object *Keywords) []keywordEntry {
		if object == nil {
			return nil
		}

		out := make([]keywordEntry, 0, object.Len())
		for pair := object.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, keywordEntry{Key: pair.Key, Value: pair.Value})
		}

		return out
	}),
	cmpopts.EquateEmpty(),
}

// mustDecode decodes ordered object or fails test.
func mustDecode(t *testing.T, text string) *Keywords {
	t.Helper()

	object, err := DecodeKeywords([]byte(text))
	if err != nil {
		t.Fatalf("DecodeKeywords: %v", err)
	}

	return object
}

// mustParseText parses schema text or fails test.
func mustParseText(t *testing.T, text string, ctx Context, policy DisclosurePolicy) ([]Field, *Memo) {
	t.Helper()

	fields, memo, err := ParseText([]byte(text), ctx, policy)
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}

	return fields, memo
}

// mustGenerateText generates schema text or fails test.
func mustGenerateText(t *testing.T, fields []Field, ctx Context, policy DisclosurePolicy, memo *Memo) string {
	t.Helper()

	data, err := GenerateText(fields, ctx, policy, memo)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}

	return string(data)
}

// keywordsOf builds ordered object from alternating key/value arguments.
func keywordsOf(members ...any) *Keywords {
	object := NewKeywords()
	for index := 0; index+1 < len(members); index += 2 {
		object.Set(members[index].(string), members[index+1])
	}

	return object
}

// assertFieldsEqual fails test with cmp diff when field trees differ.
func assertFieldsEqual(t *testing.T, got, want []Field) {
	t.Helper()

	if diff := cmp.Diff(want, got, fieldCmpOptions); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

// assertText fails test when text differs, printing both values.
func assertText(t *testing.T, got, want string) {
	t.Helper()

	if got != want {
		t.Fatalf("text mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if !strings.Contains(haystack, needle) {
		t.Fatalf("missing substring %q in:\n%s", needle, haystack)
	}
}

func assertNotContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if strings.Contains(haystack, needle) {
		t.Fatalf("unexpected substring %q in:\n%s", needle, haystack)
	}
}

// canonicalSchema is generator output for a credential schema with nested fields.
const canonicalSchema = `{
  "type": "object",
  "properties": {
    "given_name": {
      "type": "string",
      "title": "Given name",
      "maxLength": 64
    },
    "age": {
      "type": "number",
      "minimum": 0
    },
    "address": {
      "type": "object",
      "description": "Postal address",
      "properties": {
        "street": {
          "type": "string"
        },
        "zip": {
          "type": "string",
          "pattern": "^[0-9]{5}$"
        }
      },
      "required": [
        "street"
      ]
    },
    "nationalities": {
      "type": "array",
      "items": {
        "type": "string",
        "enum": [
          "DE",
          "FR"
        ]
      }
    }
  },
  "required": [
    "given_name",
    "address"
  ]
}
`
