// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Keywords is an insertion-ordered JSON object.
//
// Decoded schema objects use *Keywords at every depth, arrays use []any and
// numbers keep their source digits as json.Number.
type Keywords = orderedmap.OrderedMap[string, any]

// orderedPair is one key/value member of Keywords.
type orderedPair = orderedmap.Pair[string, any]

// maxNestingDepth bounds object and array nesting accepted by DecodeKeywords.
const maxNestingDepth = 10000

// ExplicitNull is an explicit JSON null stored where a nil value means absent,
// as in Field.AdditionalProperties. It encodes as null.
type ExplicitNull struct{}

// presentValue maps a decoded nil to ExplicitNull for keywords that were present.
func presentValue(value any) any {
	if value == nil {
		return ExplicitNull{}
	}

	return CloneValue(value)
}

// NewKeywords returns an empty ordered JSON object.
func NewKeywords() *Keywords {
	return orderedmap.New[string, any]()
}

// DecodeKeywords decodes JSON text into an ordered object, keeping key order at every depth.
func DecodeKeywords(data []byte) (*Keywords, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := decodeJSONValue(decoder, 0)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			if len(bytes.TrimSpace(data)) == 0 {
				return nil, fmt.Errorf("%w: empty input", ErrMalformedInput)
			}

			return nil, fmt.Errorf("%w: unexpected end of input", ErrMalformedInput)
		}

		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}

		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrMalformedInput)
	}

	object, ok := value.(*Keywords)
	if !ok {
		return nil, ErrSchemaRootType
	}

	return object, nil
}

// decodeJSONValue reads one complete JSON value from token stream.
// depth counts objects and arrays already open around the value.
func decodeJSONValue(decoder *json.Decoder, depth int) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := token.(json.Delim)
	if !ok {
		return token, nil
	}

	if depth >= maxNestingDepth {
		return nil, fmt.Errorf("exceeded max nesting depth of %d", maxNestingDepth)
	}

	switch delim {
	case '{':
		return decodeJSONObject(decoder, depth+1)
	case '[':
		return decodeJSONArray(decoder, depth+1)
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// decodeJSONObject reads object members after opening brace, including closing brace.
func decodeJSONObject(decoder *json.Decoder, depth int) (*Keywords, error) {
	object := NewKeywords()
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be string, got %v", token)
		}

		value, err := decodeJSONValue(decoder, depth)
		if err != nil {
			return nil, err
		}

		object.Set(key, value)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return object, nil
}

// decodeJSONArray reads array items after opening bracket, including closing bracket.
func decodeJSONArray(decoder *json.Decoder, depth int) ([]any, error) {
	out := make([]any, 0)
	for decoder.More() {
		value, err := decodeJSONValue(decoder, depth)
		if err != nil {
			return nil, err
		}

		out = append(out, value)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return out, nil
}

// EncodeKeywords serializes JSON-like value as pretty JSON with 2-space indent.
// Output is deterministic: object keys follow insertion order.
func EncodeKeywords(value any) ([]byte, error) {
	var out bytes.Buffer
	if err := writeJSONValue(&out, value, 0); err != nil {
		return nil, err
	}

	out.WriteByte('\n')
	return out.Bytes(), nil
}

// writeJSONValue writes one value at selected indent depth.
func writeJSONValue(out *bytes.Buffer, value any, depth int) error {
	switch typed := value.(type) {
	case *Keywords:
		if typed == nil || typed.Len() == 0 {
			out.WriteString("{}")
			return nil
		}

		out.WriteString("{\n")
		first := true
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				out.WriteString(",\n")
			}

			first = false
			writeIndent(out, depth+1)
			if err := writeJSONScalar(out, pair.Key); err != nil {
				return err
			}

			out.WriteString(": ")
			if err := writeJSONValue(out, pair.Value, depth+1); err != nil {
				return err
			}
		}

		out.WriteByte('\n')
		writeIndent(out, depth)
		out.WriteByte('}')
		return nil

	case []any:
		if len(typed) == 0 {
			out.WriteString("[]")
			return nil
		}

		out.WriteString("[\n")
		for index, item := range typed {
			if index > 0 {
				out.WriteString(",\n")
			}

			writeIndent(out, depth+1)
			if err := writeJSONValue(out, item, depth+1); err != nil {
				return err
			}
		}

		out.WriteByte('\n')
		writeIndent(out, depth)
		out.WriteByte(']')
		return nil

	case []string:
		items := make([]any, 0, len(typed))
		for _, item := range typed {
			items = append(items, item)
		}

		return writeJSONValue(out, items, depth)

	default:
		return writeJSONScalar(out, typed)
	}
}

// writeJSONScalar writes scalar value without HTML escaping.
func writeJSONScalar(out *bytes.Buffer, value any) error {
	switch typed := value.(type) {
	case nil, ExplicitNull:
		out.WriteString("null")
	case bool:
		out.WriteString(strconv.FormatBool(typed))
	case json.Number:
		if typed == "" {
			out.WriteByte('0')
			return nil
		}

		out.WriteString(string(typed))
	default:
		encoder := json.NewEncoder(out)
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(typed); err != nil {
			return err
		}

		// Encode terminates every value with a newline
		if data := out.Bytes(); len(data) > 0 && data[len(data)-1] == '\n' {
			out.Truncate(out.Len() - 1)
		}
	}

	return nil
}

// writeIndent writes 2-space indent for selected depth.
func writeIndent(out *bytes.Buffer, depth int) {
	for range depth {
		out.WriteString("  ")
	}
}

// CloneValue deep-copies ordered objects and arrays of JSON-like value.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case *Keywords:
		return cloneKeywords(typed)
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, CloneValue(item))
		}

		return out
	default:
		return typed
	}
}

// cloneKeywords deep-copies ordered object, nil stays nil.
func cloneKeywords(object *Keywords) *Keywords {
	if object == nil {
		return nil
	}

	out := NewKeywords()
	for pair := object.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, CloneValue(pair.Value))
	}

	return out
}

// keywordValue returns value of key from possibly nil object.
func keywordValue(object *Keywords, key string) (any, bool) {
	if object == nil {
		return nil, false
	}

	return object.Get(key)
}

// hasKeyword reports whether key is present in possibly nil object.
func hasKeyword(object *Keywords, key string) bool {
	_, ok := keywordValue(object, key)
	return ok
}

// keywordObject returns nested object stored under key.
func keywordObject(object *Keywords, key string) *Keywords {
	value, _ := keywordValue(object, key)
	nested, _ := value.(*Keywords)
	return nested
}

// keywordString returns string stored under key or empty string.
func keywordString(object *Keywords, key string) string {
	value, _ := keywordValue(object, key)
	return asString(value)
}

// asString returns string value or empty string for non-string values.
func asString(value any) string {
	text, _ := value.(string)
	return text
}

// asSlice returns array value or nil for non-array values.
func asSlice(value any) []any {
	items, _ := value.([]any)
	return items
}

// asStringSlice returns string members of array value, skipping non-strings.
func asStringSlice(value any) []string {
	items := asSlice(value)
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			continue
		}

		out = append(out, text)
	}

	return out
}

// keywordKeys returns object keys in insertion order.
func keywordKeys(object *Keywords) []string {
	if object == nil {
		return nil
	}

	out := make([]string, 0, object.Len())
	for pair := object.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}

	return out
}
