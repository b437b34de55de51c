// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Path addresses a field by sibling indices from the top-level list.
// Descending into an array field continues in its single items field properties.
type Path []int

// String returns dotted index form, for example "0.2.1".
func (path Path) String() string {
	parts := make([]string, 0, len(path))
	for _, index := range path {
		parts = append(parts, strconv.Itoa(index))
	}

	return strings.Join(parts, ".")
}

// Editor is a field list editing session bound to one schema text.
//
// Every mutation regenerates the whole schema. Editor is not safe for
// concurrent use.
type Editor struct {
	policy           DisclosurePolicy
	logger           *slog.Logger
	memo             *Memo
	fields           []Field
	schema           []byte
	ctx              Context
	keepRootMetadata bool
	changed          bool
}

// NewEditor creates editor with empty field list and generated empty schema.
func NewEditor(opt Options) (*Editor, error) {
	opt = normalizeOptions(opt)
	editor := &Editor{
		policy:           opt.Policy,
		logger:           opt.Logger,
		ctx:              opt.Context,
		keepRootMetadata: opt.KeepRootMetadata,
		fields:           []Field{},
	}

	if err := editor.regenerate(); err != nil {
		return nil, err
	}

	return editor, nil
}

// Load parses schema text into the session.
//
// Malformed text keeps previous state and returns ErrMalformedInput. changed
// is false when regenerated schema equals the previous output.
func (editor *Editor) Load(text []byte) (bool, error) {
	schema, err := DecodeKeywords(text)
	if err != nil {
		return false, err
	}

	editor.fields = newFieldParser(editor.options()).parseRoot(schema)
	editor.memo = CaptureMemo(schema)
	editor.ctx.LimitDisclosure = editor.policy.Ambient(editor.fields, editor.ctx)

	if err := editor.regenerate(); err != nil {
		return false, err
	}

	return editor.changed, nil
}

// AddSection appends a new field under parent and returns its path.
// Empty parent appends to the top-level list.
func (editor *Editor) AddSection(parent Path) (Path, error) {
	siblings := &editor.fields
	if len(parent) > 0 {
		field, err := editor.lookup(parent)
		if err != nil {
			return nil, err
		}

		siblings, err = addableChildren(field)
		if err != nil {
			return nil, err
		}
	}

	*siblings = append(*siblings, Field{
		Type:            TypeString,
		Required:        true,
		LimitDisclosure: editor.policy.Initial(editor.ctx),
	})

	path := make(Path, 0, len(parent)+1)
	path = append(path, parent...)
	path = append(path, len(*siblings)-1)

	if err := editor.regenerate(); err != nil {
		return nil, err
	}

	return path, nil
}

// Remove deletes field at path together with its subtree.
func (editor *Editor) Remove(path Path) error {
	siblings, index, err := editor.siblingsOf(path)
	if err != nil {
		return err
	}

	*siblings = append((*siblings)[:index], (*siblings)[index+1:]...)
	return editor.regenerate()
}

// Rename sets field name. Non-empty names must be unique among siblings.
func (editor *Editor) Rename(path Path, name string) error {
	siblings, index, err := editor.siblingsOf(path)
	if err != nil {
		return err
	}

	if name != "" {
		for sibling, field := range *siblings {
			if sibling != index && field.Name == name {
				return fmt.Errorf("%w %q at %s", ErrDuplicateName, name, path)
			}
		}
	}

	(*siblings)[index].Name = name
	return editor.regenerate()
}

// Retype changes field type to one of the editable types.
// Children of the previous type are dropped; arrays get string items.
func (editor *Editor) Retype(path Path, fieldType string) error {
	if !isEditableType(fieldType) {
		return fmt.Errorf("%w %q", ErrUnknownType, fieldType)
	}

	field, err := editor.lookup(path)
	if err != nil {
		return err
	}

	if field.Type == fieldType {
		editor.changed = false
		return nil
	}

	field.Type = fieldType
	field.TypeUnion = nil
	field.Properties = nil
	field.Items = nil
	if fieldType != TypeObject {
		field.AdditionalProperties = nil
	}

	switch fieldType {
	case TypeObject:
		field.Properties = []Field{}
	case TypeArray:
		field.Items = &Items{Single: &Field{Type: TypeString}}
	}

	return editor.regenerate()
}

// SetRequired toggles field membership in the parent required list.
func (editor *Editor) SetRequired(path Path, required bool) error {
	field, err := editor.lookup(path)
	if err != nil {
		return err
	}

	field.Required = required
	return editor.regenerate()
}

// SetLimitDisclosure toggles the ambient disclosure flag through the policy.
func (editor *Editor) SetLimitDisclosure(flag bool) error {
	editor.ctx.LimitDisclosure = flag
	editor.fields = editor.policy.Apply(editor.fields, editor.ctx)
	return editor.regenerate()
}

// SetFormat switches format context and re-parses current schema text under it.
// Fields stay untouched when the current schema has no properties.
func (editor *Editor) SetFormat(format string) error {
	editor.ctx.Format = strings.TrimSpace(format)

	schema, err := DecodeKeywords(editor.schema)
	if err != nil {
		return err
	}

	if properties := keywordObject(schema, keywordProperties); properties != nil && properties.Len() > 0 {
		editor.fields = newFieldParser(editor.options()).parseRoot(schema)
	}

	return editor.regenerate()
}

// Schema returns copy of last generated schema text.
func (editor *Editor) Schema() []byte {
	return bytes.Clone(editor.schema)
}

// Fields returns deep copy of current field list.
func (editor *Editor) Fields() []Field {
	return CloneFields(editor.fields)
}

// Memo returns remembered root keywords of last loaded schema, nil before Load.
func (editor *Editor) Memo() *Memo {
	return editor.memo
}

// Context returns current format context.
func (editor *Editor) Context() Context {
	return editor.ctx
}

// LimitDisclosure returns ambient disclosure flag as recomputed by the policy.
func (editor *Editor) LimitDisclosure() bool {
	return editor.policy.Ambient(editor.fields, editor.ctx)
}

// Changed reports whether the last mutation produced different schema text.
func (editor *Editor) Changed() bool {
	return editor.changed
}

// options rebuilds normalized options from session state.
func (editor *Editor) options() Options {
	return Options{
		Policy:           editor.policy,
		Logger:           editor.logger,
		Context:          editor.ctx,
		KeepRootMetadata: editor.keepRootMetadata,
	}
}

// regenerate rebuilds schema text and records whether it changed.
func (editor *Editor) regenerate() error {
	data, err := encodeSchema(GenerateWithOptions(editor.fields, editor.memo, editor.options()))
	if err != nil {
		return err
	}

	editor.changed = !bytes.Equal(data, editor.schema)
	if editor.changed {
		editor.schema = data
	}

	return nil
}

// lookup returns pointer to field addressed by path.
func (editor *Editor) lookup(path Path) (*Field, error) {
	siblings, index, err := editor.siblingsOf(path)
	if err != nil {
		return nil, err
	}

	return &(*siblings)[index], nil
}

// siblingsOf returns sibling list holding path target and target index.
func (editor *Editor) siblingsOf(path Path) (*[]Field, int, error) {
	if len(path) == 0 {
		return nil, 0, fmt.Errorf("%w: empty path", ErrFieldNotFound)
	}

	siblings := &editor.fields
	for _, index := range path[:len(path)-1] {
		if index < 0 || index >= len(*siblings) {
			return nil, 0, fmt.Errorf("%w at %s", ErrFieldNotFound, path)
		}

		children, ok := existingChildren(&(*siblings)[index])
		if !ok {
			return nil, 0, fmt.Errorf("%w at %s", ErrFieldNotFound, path)
		}

		siblings = children
	}

	index := path[len(path)-1]
	if index < 0 || index >= len(*siblings) {
		return nil, 0, fmt.Errorf("%w at %s", ErrFieldNotFound, path)
	}

	return siblings, index, nil
}

// existingChildren returns child list of object field or array single items field.
func existingChildren(field *Field) (*[]Field, bool) {
	switch field.Type {
	case TypeObject:
		return &field.Properties, true
	case TypeArray:
		if field.Items == nil || field.Items.Single == nil || field.Items.Single.Type != TypeObject {
			return nil, false
		}

		return &field.Items.Single.Properties, true
	default:
		return nil, false
	}
}

// addableChildren returns child list for AddSection, turning scalar array
// items into an object items field.
func addableChildren(field *Field) (*[]Field, error) {
	if children, ok := existingChildren(field); ok {
		return children, nil
	}

	if field.Type != TypeArray {
		return nil, fmt.Errorf("%w: %s field %q has no children", ErrFieldNotFound, field.Type, field.Name)
	}

	field.Items = &Items{Single: &Field{Type: TypeObject, Properties: []Field{}}}
	return &field.Items.Single.Properties, nil
}
