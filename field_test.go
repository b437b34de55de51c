// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
)

func TestMarshalFieldsDocument(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{
			Name:            "birth_date",
			Type:            TypeString,
			Required:        true,
			LimitDisclosure: true,
			Keywords:        keywordsOf("format", "date"),
		},
		{
			Name:                 "address",
			Type:                 TypeObject,
			Properties:           []Field{},
			AdditionalProperties: false,
		},
	}

	data, err := MarshalFields(fields)
	if err != nil {
		t.Fatalf("MarshalFields: %v", err)
	}

	assertText(t, string(data), `[
  {
    "name": "birth_date",
    "type": "string",
    "required": true,
    "limitDisclosure": true,
    "format": "date"
  },
  {
    "name": "address",
    "type": "object",
    "required": false,
    "properties": [],
    "additionalProperties": false
  }
]
`)

	decoded, err := UnmarshalFields(data)
	if err != nil {
		t.Fatalf("UnmarshalFields: %v", err)
	}

	assertFieldsEqual(t, decoded, fields)
}

func TestFieldDocumentsRoundTripParsedSchema(t *testing.T) {
	t.Parallel()

	fields, _ := mustParseText(t, canonicalSchema, Context{}, nil)

	jsonData, err := MarshalFields(fields)
	if err != nil {
		t.Fatalf("MarshalFields: %v", err)
	}

	fromJSON, err := UnmarshalFields(jsonData)
	if err != nil {
		t.Fatalf("UnmarshalFields: %v", err)
	}

	assertFieldsEqual(t, fromJSON, fields)

	yamlData, err := MarshalFieldsYAML(fields)
	if err != nil {
		t.Fatalf("MarshalFieldsYAML: %v", err)
	}

	assertContains(t, string(yamlData), "- name: given_name\n")
	assertContains(t, string(yamlData), "maxLength: 64\n")

	fromYAML, err := UnmarshalFieldsYAML(yamlData)
	if err != nil {
		t.Fatalf("UnmarshalFieldsYAML: %v", err)
	}

	assertFieldsEqual(t, fromYAML, fields)
	assertText(t, mustGenerateText(t, fromYAML, Context{}, nil, nil), canonicalSchema)
}

func TestFieldDocumentsKeepTypeUnionsAndNulls(t *testing.T) {
	t.Parallel()

	const schema = `{
  "type": "object",
  "properties": {
    "nickname": {
      "type": [
        "string",
        "null"
      ]
    },
    "meta": {
      "type": "object",
      "additionalProperties": null
    }
  },
  "additionalProperties": null
}
`

	fields, _ := mustParseText(t, schema, Context{}, nil)

	jsonData, err := MarshalFields(fields)
	if err != nil {
		t.Fatalf("MarshalFields: %v", err)
	}

	assertContains(t, string(jsonData), "\"type\": [\n      \"string\",\n      \"null\"\n    ]")

	fromJSON, err := UnmarshalFields(jsonData)
	if err != nil {
		t.Fatalf("UnmarshalFields: %v", err)
	}

	assertFieldsEqual(t, fromJSON, fields)

	yamlData, err := MarshalFieldsYAML(fields)
	if err != nil {
		t.Fatalf("MarshalFieldsYAML: %v", err)
	}

	assertContains(t, string(yamlData), "additionalProperties: null\n")

	fromYAML, err := UnmarshalFieldsYAML(yamlData)
	if err != nil {
		t.Fatalf("UnmarshalFieldsYAML: %v", err)
	}

	assertFieldsEqual(t, fromYAML, fields)
	assertText(t, mustGenerateText(t, fromYAML, Context{}, nil, nil), schema)
}

func TestUnmarshalFieldsYAMLKeepsKeywordOrder(t *testing.T) {
	t.Parallel()

	fields, err := UnmarshalFieldsYAML([]byte(`
- name: portrait
  type: string
  contentEncoding: base64
  title: Portrait
  maxLength: 4096
  ratio: 1.5
- name: empty
`))
	if err != nil {
		t.Fatalf("UnmarshalFieldsYAML: %v", err)
	}

	if got := keywordKeys(fields[0].Keywords); len(got) != 4 || got[0] != "contentEncoding" || got[3] != "ratio" {
		t.Fatalf("keyword order = %v", got)
	}

	if value, _ := fields[0].Keyword("ratio"); value != json.Number("1.5") {
		t.Fatalf("ratio = %#v, want json.Number 1.5", value)
	}

	if fields[1].Type != "" || fields[1].Required {
		t.Fatalf("empty field = %+v, want zero type and not required", fields[1])
	}
}

func TestUnmarshalFieldsErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
	}{
		{name: "malformed", input: `[{"name": `},
		{name: "object root", input: `{"name": "a"}`},
		{name: "scalar entry", input: `["a"]`},
		{name: "required not bool", input: `[{"name": "a", "required": "yes"}]`},
		{name: "bad items", input: `[{"name": "a", "type": "array", "items": 3}]`},
		{name: "bad nested", input: `[{"name": "a", "properties": [1]}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := UnmarshalFields([]byte(tc.input)); !errors.Is(err, ErrDecodeFields) {
				t.Fatalf("UnmarshalFields(%s) error = %v, want ErrDecodeFields", tc.input, err)
			}
		})
	}

	if _, err := UnmarshalFieldsYAML([]byte("- name: [unclosed\n")); !errors.Is(err, ErrDecodeFields) {
		t.Fatalf("UnmarshalFieldsYAML error = %v, want ErrDecodeFields", err)
	}

	if _, err := UnmarshalFieldsYAML([]byte("- ratio: .inf\n")); !errors.Is(err, ErrDecodeFields) {
		t.Fatalf("UnmarshalFieldsYAML(.inf) error = %v, want ErrDecodeFields", err)
	}
}

func TestFieldCloneIsDeep(t *testing.T) {
	t.Parallel()

	fields, _ := mustParseText(t, canonicalSchema, Context{}, nil)
	clone := CloneFields(fields)

	clone[2].Properties[0].Name = "changed"
	clone[3].Items.Single.Keywords.Set("enum", []any{"XX"})
	clone[0].SetKeyword("title", "Other")

	fresh, _ := mustParseText(t, canonicalSchema, Context{}, nil)
	assertFieldsEqual(t, fields, fresh)
}

func TestSetKeywordIgnoresReservedKeys(t *testing.T) {
	t.Parallel()

	var field Field
	for _, key := range []string{"name", "type", "required", "properties", "items", "limitDisclosure", "additionalProperties"} {
		field.SetKeyword(key, "x")
	}

	if field.Keywords != nil {
		t.Fatalf("reserved keys stored as passthrough: %v", keywordKeys(field.Keywords))
	}
}
