// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"slices"
	"testing"
)

func TestGenerateTextCanonicalIsFixedPoint(t *testing.T) {
	t.Parallel()

	fields, memo := mustParseText(t, canonicalSchema, Context{}, FormatPolicy{})
	got := mustGenerateText(t, fields, Context{}, FormatPolicy{}, memo)
	assertText(t, got, canonicalSchema)

	again := mustGenerateText(t, fields, Context{}, FormatPolicy{}, memo)
	assertText(t, again, got)
}

func TestGenerateParseRoundTripKeepsFields(t *testing.T) {
	t.Parallel()

	fields, _ := mustParseText(t, `{
  "properties": {
    "document": {
      "type": "object",
      "title": "Document",
      "properties": {
        "number": {"type": "string", "minLength": 6},
        "issued": {"type": "string", "format": "date"}
      },
      "required": ["number"],
      "additionalProperties": false
    },
    "scores": {
      "type": "array",
      "items": [{"type": "number"}, {"type": "boolean"}]
    }
  }
}`, Context{}, FormatPolicy{})

	text := mustGenerateText(t, fields, Context{}, FormatPolicy{}, nil)
	reparsed, _ := mustParseText(t, text, Context{}, FormatPolicy{})
	assertFieldsEqual(t, reparsed, fields)
}

func TestGenerateEmptyFieldList(t *testing.T) {
	t.Parallel()

	got := mustGenerateText(t, nil, Context{}, nil, nil)
	assertText(t, got, `{
  "type": "object",
  "properties": {}
}
`)

	_, memo := mustParseText(t, `{"$schema": "https://json-schema.org/draft/2020-12/schema", "title": "PID", "properties": {}}`, Context{}, nil)
	got = mustGenerateText(t, []Field{}, Context{}, nil, memo)
	assertText(t, got, `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "PID"
}
`)
}

func TestGenerateOmitsTypeForDefinitionReferences(t *testing.T) {
	t.Parallel()

	input := `{
  "type": "object",
  "properties": {
    "home": {
      "$ref": "#/$defs/address"
    },
    "homes": {
      "type": "array",
      "items": {
        "$ref": "#/$defs/address"
      }
    },
    "either": {
      "anyOf": [
        {
          "$ref": "#/definitions/a"
        },
        {
          "type": "null"
        }
      ]
    },
    "remote": {
      "type": "object",
      "$ref": "https://example.com/address.json"
    }
  }
}
`

	fields, _ := mustParseText(t, input, Context{}, nil)
	got := mustGenerateText(t, fields, Context{}, nil, nil)
	assertText(t, got, input)
}

func TestGenerateRootKeywords(t *testing.T) {
	t.Parallel()

	_, memo := mustParseText(t, `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "PID",
  "type": "object",
  "properties": {"old": {"type": "string"}},
  "required": ["old"],
  "$defs": {"address": {"type": "object"}}
}`, Context{}, nil)

	fields := []Field{{Name: "given_name", Type: TypeString, Required: true}}

	plain := GenerateWithOptions(fields, memo, Options{})
	if got, want := keywordKeys(plain), []string{"type", "properties", "required"}; !slices.Equal(got, want) {
		t.Fatalf("root keys = %v, want %v", got, want)
	}

	kept := GenerateWithOptions(fields, memo, Options{KeepRootMetadata: true})
	if got, want := keywordKeys(kept), []string{"type", "$schema", "title", "$defs", "properties", "required"}; !slices.Equal(got, want) {
		t.Fatalf("root keys with metadata = %v, want %v", got, want)
	}

	required, _ := kept.Get(keywordRequired)
	if got := asStringSlice(required); !slices.Equal(got, []string{"given_name"}) {
		t.Fatalf("root required = %v, want [given_name]", got)
	}
}

func TestGenerateRootAdditionalPropertiesFromFirstSection(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{Name: "plain", Type: TypeString},
		{Name: "first", Type: TypeObject, Properties: []Field{}, AdditionalProperties: false},
		{Name: "second", Type: TypeObject, Properties: []Field{}, AdditionalProperties: true},
	}

	root := Generate(fields, Context{}, nil, nil)
	if value, ok := root.Get(keywordAdditionalProperties); !ok || value != false {
		t.Fatalf("root additionalProperties = %#v (present %t), want false", value, ok)
	}

	mdoc := Generate(fields, Context{Format: FormatMsoMdoc}, nil, nil)
	if _, ok := mdoc.Get(keywordAdditionalProperties); ok {
		t.Fatal("mso_mdoc root must not carry additionalProperties")
	}

	first := keywordObject(keywordObject(mdoc, keywordProperties), "first")
	if _, ok := first.Get(keywordAdditionalProperties); ok {
		t.Fatal("mso_mdoc section must not carry additionalProperties")
	}
}

func TestGenerateSkipsNamelessFields(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{Type: TypeString, Required: true},
		{Name: "kept", Type: ""},
	}

	got := mustGenerateText(t, fields, Context{}, nil, nil)
	assertText(t, got, `{
  "type": "object",
  "properties": {
    "kept": {
      "type": "string"
    }
  }
}
`)
}

func TestGenerateArrayItems(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{Name: "bare", Type: TypeArray},
		{Name: "pair", Type: TypeArray, Items: &Items{Tuple: []Field{{Type: TypeString}, {Type: TypeNumber}}}},
	}

	got := mustGenerateText(t, fields, Context{}, nil, nil)
	assertText(t, got, `{
  "type": "object",
  "properties": {
    "bare": {
      "type": "array",
      "items": {
        "type": "string"
      }
    },
    "pair": {
      "type": "array",
      "items": [
        {
          "type": "string"
        },
        {
          "type": "number"
        }
      ]
    }
  }
}
`)
}

func TestGenerateLimitDisclosureByPolicy(t *testing.T) {
	t.Parallel()

	fields := []Field{{
		Name:            "address",
		Type:            TypeObject,
		LimitDisclosure: true,
		Properties: []Field{
			{Name: "street", Type: TypeString, LimitDisclosure: false},
		},
	}}

	cascade := Generate(fields, Context{}, CascadePolicy{}, nil)
	address := keywordObject(keywordObject(cascade, keywordProperties), "address")
	if value, _ := address.Get(keywordLimitDisclosure); value != true {
		t.Fatalf("cascade address limitDisclosure = %#v, want true", value)
	}

	street := keywordObject(keywordObject(address, keywordProperties), "street")
	if value, ok := street.Get(keywordLimitDisclosure); !ok || value != false {
		t.Fatalf("cascade street limitDisclosure = %#v, want false", value)
	}

	jwt := mustGenerateText(t, fields, Context{Format: FormatJWT}, FormatPolicy{}, nil)
	assertNotContains(t, jwt, keywordLimitDisclosure)

	label := Generate(fields, Context{LimitDisclosure: true}, LabelPolicy{}, nil)
	address = keywordObject(keywordObject(label, keywordProperties), "address")
	street = keywordObject(keywordObject(address, keywordProperties), "street")
	for name, node := range map[string]*Keywords{"address": address, "street": street} {
		if value, _ := node.Get(keywordLimitDisclosure); value != DisclosureRequired {
			t.Fatalf("label %s limitDisclosure = %#v, want %q", name, value, DisclosureRequired)
		}
	}
}

func TestGenerateKeepsTypeUnions(t *testing.T) {
	t.Parallel()

	const input = `{
  "type": "object",
  "properties": {
    "nickname": {
      "type": [
        "null",
        "string"
      ]
    },
    "scores": {
      "type": [
        "array",
        "null"
      ],
      "items": {
        "type": "number"
      }
    }
  }
}
`

	for _, format := range []string{"", FormatJWT, FormatMsoMdoc} {
		ctx := Context{Format: format}
		fields, memo := mustParseText(t, input, ctx, nil)
		if fields[0].Type != TypeString || fields[1].Type != TypeArray {
			t.Fatalf("format %q: resolved types = %q, %q", format, fields[0].Type, fields[1].Type)
		}

		assertText(t, mustGenerateText(t, fields, ctx, nil, memo), input)
	}

	fields, _ := mustParseText(t, input, Context{}, nil)
	fields[0].Type = TypeNumber
	got := mustGenerateText(t, fields, Context{}, nil, nil)
	assertContains(t, got, "\"nickname\": {\n      \"type\": \"number\"\n    }")
}

func TestGenerateKeepsExplicitNullAdditionalProperties(t *testing.T) {
	t.Parallel()

	fields, memo := mustParseText(t, `{"properties": {"meta": {"type": "object", "additionalProperties": null}}}`, Context{}, nil)
	if fields[0].AdditionalProperties != (ExplicitNull{}) {
		t.Fatalf("additionalProperties = %#v, want ExplicitNull", fields[0].AdditionalProperties)
	}

	got := mustGenerateText(t, fields, Context{}, nil, memo)
	assertContains(t, got, "\"meta\": {\n      \"type\": \"object\",\n      \"additionalProperties\": null\n    }")
	assertContains(t, got, "  },\n  \"additionalProperties\": null\n}\n")

	absent, _ := mustParseText(t, `{"properties": {"meta": {"type": "object"}}}`, Context{}, nil)
	if absent[0].AdditionalProperties != nil {
		t.Fatalf("absent additionalProperties = %#v, want nil", absent[0].AdditionalProperties)
	}
}
