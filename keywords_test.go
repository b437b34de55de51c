// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"errors"
	"slices"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestDecodeKeywordsPreservesKeyOrder(t *testing.T) {
	t.Parallel()

	object := mustDecode(t, `{"zeta":1,"alpha":{"d":true,"c":null},"mid":[{"y":1,"x":2}]}`)
	if got, want := keywordKeys(object), []string{"zeta", "alpha", "mid"}; !slices.Equal(got, want) {
		t.Fatalf("root keys = %v, want %v", got, want)
	}

	if got, want := keywordKeys(keywordObject(object, "alpha")), []string{"d", "c"}; !slices.Equal(got, want) {
		t.Fatalf("nested keys = %v, want %v", got, want)
	}

	items, _ := object.Get("mid")
	first, ok := asSlice(items)[0].(*Keywords)
	if !ok {
		t.Fatalf("array item type = %T, want *Keywords", asSlice(items)[0])
	}

	if got, want := keywordKeys(first), []string{"y", "x"}; !slices.Equal(got, want) {
		t.Fatalf("array item keys = %v, want %v", got, want)
	}
}

func TestDecodeKeywordsKeepsNumberText(t *testing.T) {
	t.Parallel()

	object := mustDecode(t, `{"minimum":1.50,"big":12345678901234567890}`)
	for key, want := range map[string]json.Number{"minimum": "1.50", "big": "12345678901234567890"} {
		value, _ := object.Get(key)
		if value != want {
			t.Fatalf("%s = %#v, want %#v", key, value, want)
		}
	}
}

func TestDecodeKeywordsErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		want     error
		wantText string
	}{
		{name: "empty", input: "", want: ErrMalformedInput, wantText: "empty input"},
		{name: "blank", input: "  \n", want: ErrMalformedInput, wantText: "empty input"},
		{name: "truncated", input: `{"type":`, want: ErrMalformedInput, wantText: "unexpected end of input"},
		{name: "truncated object", input: `{"a":1,`, want: ErrMalformedInput},
		{name: "trailing value", input: `{"a":1} {"b":2}`, want: ErrMalformedInput},
		{name: "trailing garbage", input: `{"a":1} x`, want: ErrMalformedInput},
		{name: "array root", input: `[1,2]`, want: ErrSchemaRootType},
		{name: "string root", input: `"schema"`, want: ErrSchemaRootType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeKeywords([]byte(tc.input))
			if !errors.Is(err, tc.want) {
				t.Fatalf("DecodeKeywords(%q) error = %v, want %v", tc.input, err, tc.want)
			}

			if tc.wantText != "" && !strings.Contains(err.Error(), tc.wantText) {
				t.Fatalf("DecodeKeywords(%q) error = %q, want it to mention %q", tc.input, err, tc.wantText)
			}

			if tc.wantText != "empty input" && strings.Contains(err.Error(), "empty input") {
				t.Fatalf("DecodeKeywords(%q) error = %q, input is not empty", tc.input, err)
			}
		})
	}
}

func TestDecodeKeywordsNestingLimit(t *testing.T) {
	t.Parallel()

	nested := func(levels int) []byte {
		return []byte(`{"enum":` + strings.Repeat("[", levels) + strings.Repeat("]", levels) + `}`)
	}

	if _, err := DecodeKeywords(nested(1000)); err != nil {
		t.Fatalf("DecodeKeywords with 1000 levels: %v", err)
	}

	_, err := DecodeKeywords(nested(maxNestingDepth))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("DecodeKeywords past limit error = %v, want ErrMalformedInput", err)
	}

	_, _, err = ParseText([]byte(`{"properties":{"a":{"enum":`+strings.Repeat("[", 3*maxNestingDepth)+strings.Repeat("]", 3*maxNestingDepth)+`}}}`), Context{}, nil)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("ParseText deep input error = %v, want ErrMalformedInput", err)
	}
}

func TestEncodeKeywordsFormatting(t *testing.T) {
	t.Parallel()

	object := keywordsOf(
		"b", json.Number("1.50"),
		"html", "<a&b>",
		"<key>&", "^<x>&$",
		"explicit", ExplicitNull{},
		"empty", NewKeywords(),
		"list", []any{},
		"nested", keywordsOf("flag", true, "none", nil),
		"names", []string{"x", "y"},
	)

	data, err := EncodeKeywords(object)
	if err != nil {
		t.Fatalf("EncodeKeywords: %v", err)
	}

	want := `{
  "b": 1.50,
  "html": "<a&b>",
  "<key>&": "^<x>&$",
  "explicit": null,
  "empty": {},
  "list": [],
  "nested": {
    "flag": true,
    "none": null
  },
  "names": [
    "x",
    "y"
  ]
}
`
	assertText(t, string(data), want)
}

func TestGenerateTextKeepsMarkupCharacters(t *testing.T) {
	t.Parallel()

	input := `{"properties":{"a&b":{"type":"string","pattern":"^<x>&$","description":"A & B"}}}`
	fields, memo := mustParseText(t, input, Context{}, nil)
	got := mustGenerateText(t, fields, Context{}, nil, memo)

	assertContains(t, got, `"a&b": {`)
	assertContains(t, got, `"pattern": "^<x>&$"`)
	assertContains(t, got, `"description": "A & B"`)
	assertNotContains(t, got, `\u00`)
}

func TestEncodeKeywordsRoundTripsDecodedText(t *testing.T) {
	t.Parallel()

	data, err := EncodeKeywords(mustDecode(t, canonicalSchema))
	if err != nil {
		t.Fatalf("EncodeKeywords: %v", err)
	}

	assertText(t, string(data), canonicalSchema)
}

func TestCloneValueIsDeep(t *testing.T) {
	t.Parallel()

	original := mustDecode(t, `{"a":{"b":[1,{"c":2}]}}`)
	clone := CloneValue(original).(*Keywords)

	keywordObject(clone, "a").Set("b", "changed")
	value, _ := keywordObject(original, "a").Get("b")
	if _, ok := value.([]any); !ok {
		t.Fatalf("original mutated through clone: %#v", value)
	}
}
