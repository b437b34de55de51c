// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"fmt"
	"slices"
)

// Editable field types offered by the field list editor.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// editableTypes lists types accepted by Editor.Retype in display order.
var editableTypes = []string{TypeString, TypeNumber, TypeBoolean, TypeObject, TypeArray}

// Reserved keywords are modeled by Field members and never carried as passthrough.
const (
	keywordName                 = "name"
	keywordType                 = "type"
	keywordRequired             = "required"
	keywordProperties           = "properties"
	keywordItems                = "items"
	keywordLimitDisclosure      = "limitDisclosure"
	keywordAdditionalProperties = "additionalProperties"
)

// reservedKeywords is shared by parser and generator to keep passthrough symmetric.
var reservedKeywords = map[string]struct{}{
	keywordName:                 {},
	keywordType:                 {},
	keywordRequired:             {},
	keywordProperties:           {},
	keywordItems:                {},
	keywordLimitDisclosure:      {},
	keywordAdditionalProperties: {},
}

// Field is one named, typed entry of the editable field list.
type Field struct {
	// Keywords holds passthrough schema keywords in source order.
	Keywords *Keywords
	// LimitDisclosure is nil when absent; bool or label string otherwise.
	LimitDisclosure any
	// AdditionalProperties is nil when absent.
	AdditionalProperties any
	// Items describes array items for array fields.
	Items *Items
	// Name is the property key; empty names are skipped on generation.
	Name string
	// Type is the schema type used for editing and generation.
	Type string
	// TypeUnion holds members of a declared type array in source order.
	// Generation emits it in place of Type while Type is one of its members.
	TypeUnion []string
	// Properties are child fields of object fields in display order.
	Properties []Field
	// Required reports membership in the parent required list.
	Required bool
}

// Items describes array items: a single item schema or an ordered tuple.
type Items struct {
	Single *Field
	Tuple  []Field
}

// IsTuple reports whether items use the ordered sequence form.
func (items *Items) IsTuple() bool {
	return items != nil && items.Single == nil && items.Tuple != nil
}

// Clone returns deep copy of field.
func (field Field) Clone() Field {
	out := field
	out.Keywords = cloneKeywords(field.Keywords)
	out.TypeUnion = slices.Clone(field.TypeUnion)
	out.LimitDisclosure = CloneValue(field.LimitDisclosure)
	out.AdditionalProperties = CloneValue(field.AdditionalProperties)
	out.Properties = CloneFields(field.Properties)
	out.Items = field.Items.Clone()
	return out
}

// Clone returns deep copy of items, nil stays nil.
func (items *Items) Clone() *Items {
	if items == nil {
		return nil
	}

	out := &Items{}
	if items.Single != nil {
		single := items.Single.Clone()
		out.Single = &single
	}

	if items.Tuple != nil {
		out.Tuple = CloneFields(items.Tuple)
	}

	return out
}

// CloneFields deep-copies field list, nil stays nil.
func CloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}

	out := make([]Field, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Clone())
	}

	return out
}

// Keyword returns passthrough keyword value.
func (field Field) Keyword(key string) (any, bool) {
	return keywordValue(field.Keywords, key)
}

// SetKeyword stores passthrough keyword, ignoring reserved keys.
func (field *Field) SetKeyword(key string, value any) {
	if _, reserved := reservedKeywords[key]; reserved {
		return
	}

	if field.Keywords == nil {
		field.Keywords = NewKeywords()
	}

	field.Keywords.Set(key, value)
}

// MarshalFields encodes field list as pretty JSON field document.
func MarshalFields(fields []Field) ([]byte, error) {
	data, err := EncodeKeywords(fieldsDocument(fields))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFields, err)
	}

	return data, nil
}

// UnmarshalFields decodes JSON field document into field list.
func UnmarshalFields(data []byte) ([]Field, error) {
	wrapped := make([]byte, 0, len(data)+len(`{"fields":}`))
	wrapped = append(wrapped, `{"fields":`...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, '}')

	root, err := DecodeKeywords(wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFields, err)
	}

	value, _ := root.Get("fields")
	return fieldsFromDocument(value)
}

// fieldsDocument converts field list into its JSON-like wire form.
func fieldsDocument(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, fieldDocument(field))
	}

	return out
}

// fieldDocument converts one field into ordered wire object.
func fieldDocument(field Field) *Keywords {
	out := NewKeywords()
	out.Set(keywordName, field.Name)
	out.Set(keywordType, field.typeValue(field.Type))
	out.Set(keywordRequired, field.Required)
	if field.LimitDisclosure != nil {
		out.Set(keywordLimitDisclosure, CloneValue(field.LimitDisclosure))
	}

	if field.Properties != nil {
		out.Set(keywordProperties, fieldsDocument(field.Properties))
	}

	if field.Items != nil {
		switch {
		case field.Items.Single != nil:
			out.Set(keywordItems, fieldDocument(*field.Items.Single))
		case field.Items.Tuple != nil:
			out.Set(keywordItems, fieldsDocument(field.Items.Tuple))
		}
	}

	if field.AdditionalProperties != nil {
		out.Set(keywordAdditionalProperties, CloneValue(field.AdditionalProperties))
	}

	for pair := oldest(field.Keywords); pair != nil; pair = pair.Next() {
		if _, reserved := reservedKeywords[pair.Key]; reserved {
			continue
		}

		out.Set(pair.Key, CloneValue(pair.Value))
	}

	return out
}

// fieldsFromDocument converts wire array back into field list.
func fieldsFromDocument(value any) ([]Field, error) {
	if value == nil {
		return []Field{}, nil
	}

	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: field list must be array", ErrDecodeFields)
	}

	out := make([]Field, 0, len(items))
	for index, item := range items {
		object, ok := item.(*Keywords)
		if !ok {
			return nil, fmt.Errorf("%w: field %d must be object", ErrDecodeFields, index)
		}

		field, err := fieldFromDocument(object)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", index, err)
		}

		out = append(out, field)
	}

	return out, nil
}

// fieldFromDocument converts one ordered wire object into field.
func fieldFromDocument(object *Keywords) (Field, error) {
	field := Field{Name: keywordString(object, keywordName)}
	field.Type, field.TypeUnion = declaredType(object)

	if value, ok := object.Get(keywordRequired); ok {
		required, isBool := value.(bool)
		if !isBool {
			return Field{}, fmt.Errorf("%w: %q must be boolean", ErrDecodeFields, keywordRequired)
		}

		field.Required = required
	}

	if value, ok := object.Get(keywordLimitDisclosure); ok && value != nil {
		field.LimitDisclosure = CloneValue(value)
	}

	if value, ok := object.Get(keywordAdditionalProperties); ok {
		field.AdditionalProperties = presentValue(value)
	}

	if value, ok := object.Get(keywordProperties); ok {
		properties, err := fieldsFromDocument(value)
		if err != nil {
			return Field{}, fmt.Errorf("%s: %w", keywordProperties, err)
		}

		field.Properties = properties
	}

	if value, ok := object.Get(keywordItems); ok {
		items, err := itemsFromDocument(value)
		if err != nil {
			return Field{}, fmt.Errorf("%s: %w", keywordItems, err)
		}

		field.Items = items
	}

	for pair := object.Oldest(); pair != nil; pair = pair.Next() {
		if _, reserved := reservedKeywords[pair.Key]; reserved {
			continue
		}

		field.SetKeyword(pair.Key, CloneValue(pair.Value))
	}

	return field, nil
}

// itemsFromDocument converts wire items (object or array) into Items.
func itemsFromDocument(value any) (*Items, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case *Keywords:
		single, err := fieldFromDocument(typed)
		if err != nil {
			return nil, err
		}

		return &Items{Single: &single}, nil
	case []any:
		tuple, err := fieldsFromDocument(typed)
		if err != nil {
			return nil, err
		}

		return &Items{Tuple: tuple}, nil
	default:
		return nil, fmt.Errorf("%w: items must be object or array", ErrDecodeFields)
	}
}

// typeValue returns "type" keyword value for resolved type: the declared
// union while it still contains resolved type, resolved type otherwise.
func (field Field) typeValue(resolved string) any {
	if !slices.Contains(field.TypeUnion, resolved) {
		return resolved
	}

	out := make([]any, 0, len(field.TypeUnion))
	for _, member := range field.TypeUnion {
		out = append(out, member)
	}

	return out
}

// oldest returns first pair of possibly nil object.
func oldest(object *Keywords) *orderedPair {
	if object == nil {
		return nil
	}

	return object.Oldest()
}

// isEditableType reports whether type is offered by the editor.
func isEditableType(fieldType string) bool {
	return slices.Contains(editableTypes, fieldType)
}
