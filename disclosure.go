// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"fmt"
	"sort"
	"strings"
)

// Policy names accepted by PolicyByName.
const (
	PolicyCascade = "cascade"
	PolicyFormat  = "format"
	PolicyLabel   = "label"
)

// Label values written by LabelPolicy.
const (
	DisclosureRequired = "required"
	DisclosureOptional = "optional"
)

// DisclosureNode describes one node whose limitDisclosure value is being parsed.
type DisclosureNode struct {
	// Value is the explicit source value when Present is true.
	Value any
	// Type is the resolved node type.
	Type string
	// Present reports whether source node carried limitDisclosure.
	Present bool
	// Item reports whether node is an array items schema rather than a named property.
	Item bool
}

// DisclosurePolicy decides how the limitDisclosure marker is read, written and toggled.
// Exactly one policy is used for a parse/generate session.
type DisclosurePolicy interface {
	// Name returns registry name of policy.
	Name() string
	// OnParse returns value stored on parsed field, nil for absent.
	OnParse(node DisclosureNode, ctx Context) any
	// OnGenerate returns value emitted for field, nil to omit the keyword.
	OnGenerate(field Field, ctx Context) any
	// Initial returns value for a newly added field.
	Initial(ctx Context) any
	// Apply returns a new tree after the ambient flag was toggled to ctx.LimitDisclosure.
	Apply(fields []Field, ctx Context) []Field
	// Ambient recomputes ambient flag from tree state.
	Ambient(fields []Field, ctx Context) bool
}

// policyRegistry maps policy names to constructors.
var policyRegistry = map[string]func() DisclosurePolicy{
	PolicyCascade: func() DisclosurePolicy { return CascadePolicy{} },
	PolicyFormat:  func() DisclosurePolicy { return FormatPolicy{} },
	PolicyLabel:   func() DisclosurePolicy { return LabelPolicy{} },
}

// PolicyByName returns registered disclosure policy by name.
func PolicyByName(name string) (DisclosurePolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatPolicy{}, nil
	}

	factory, ok := policyRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPolicy, name)
	}

	return factory(), nil
}

// PolicyNames returns registered policy names in sorted order.
func PolicyNames() []string {
	names := make([]string, 0, len(policyRegistry))
	for name := range policyRegistry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// CascadePolicy is the boolean cascade mode.
//
// Parsed nodes take their explicit value or the ambient flag; toggling the
// flag overwrites every node; the ambient flag is true only when the tree
// holds at least one value and all values are true.
type CascadePolicy struct{}

// Name implements DisclosurePolicy.
func (CascadePolicy) Name() string { return PolicyCascade }

// OnParse implements DisclosurePolicy.
func (CascadePolicy) OnParse(node DisclosureNode, ctx Context) any {
	if node.Present {
		return CloneValue(node.Value)
	}

	// scalar items never carried a marker of their own
	if node.Item && node.Type != TypeObject {
		return nil
	}

	return ctx.LimitDisclosure
}

// OnGenerate implements DisclosurePolicy.
func (CascadePolicy) OnGenerate(field Field, _ Context) any {
	return CloneValue(field.LimitDisclosure)
}

// Initial implements DisclosurePolicy.
func (CascadePolicy) Initial(ctx Context) any {
	return ctx.LimitDisclosure
}

// Apply implements DisclosurePolicy.
func (CascadePolicy) Apply(fields []Field, ctx Context) []Field {
	return mapFields(fields, func(field *Field, item bool) {
		if item && field.Type != TypeObject && field.LimitDisclosure == nil {
			return
		}

		field.LimitDisclosure = ctx.LimitDisclosure
	})
}

// Ambient implements DisclosurePolicy.
func (CascadePolicy) Ambient(fields []Field, _ Context) bool {
	count := 0
	allTrue := true
	walkFields(fields, func(field Field) {
		if field.LimitDisclosure == nil {
			return
		}

		count++
		if value, ok := field.LimitDisclosure.(bool); !ok || !value {
			allTrue = false
		}
	})

	return count > 0 && allTrue
}

// FormatPolicy is the format discriminator mode and the default policy.
//
// Format "jwt" strips limitDisclosure everywhere. Other formats keep only
// values that were explicitly present; nothing is injected.
type FormatPolicy struct{}

// Name implements DisclosurePolicy.
func (FormatPolicy) Name() string { return PolicyFormat }

// OnParse implements DisclosurePolicy.
func (FormatPolicy) OnParse(node DisclosureNode, ctx Context) any {
	if ctx.Format == FormatJWT || !node.Present {
		return nil
	}

	return CloneValue(node.Value)
}

// OnGenerate implements DisclosurePolicy.
func (FormatPolicy) OnGenerate(field Field, ctx Context) any {
	if ctx.Format == FormatJWT {
		return nil
	}

	return CloneValue(field.LimitDisclosure)
}

// Initial implements DisclosurePolicy. New fields carry true only while the
// ambient flag is on; false is never injected.
func (FormatPolicy) Initial(ctx Context) any {
	if ctx.Format == FormatJWT || !ctx.LimitDisclosure {
		return nil
	}

	return true
}

// Apply implements DisclosurePolicy.
func (FormatPolicy) Apply(fields []Field, _ Context) []Field {
	return CloneFields(fields)
}

// Ambient implements DisclosurePolicy.
func (FormatPolicy) Ambient(_ []Field, ctx Context) bool {
	return ctx.LimitDisclosure
}

// LabelPolicy writes "required" or "optional" on every node from the ambient flag.
type LabelPolicy struct{}

// Name implements DisclosurePolicy.
func (LabelPolicy) Name() string { return PolicyLabel }

// OnParse implements DisclosurePolicy.
func (LabelPolicy) OnParse(_ DisclosureNode, _ Context) any {
	return nil
}

// OnGenerate implements DisclosurePolicy.
func (LabelPolicy) OnGenerate(_ Field, ctx Context) any {
	if ctx.LimitDisclosure {
		return DisclosureRequired
	}

	return DisclosureOptional
}

// Initial implements DisclosurePolicy.
func (LabelPolicy) Initial(_ Context) any {
	return nil
}

// Apply implements DisclosurePolicy.
func (LabelPolicy) Apply(fields []Field, _ Context) []Field {
	return CloneFields(fields)
}

// Ambient implements DisclosurePolicy.
func (LabelPolicy) Ambient(_ []Field, ctx Context) bool {
	return ctx.LimitDisclosure
}

// ScanDisclosure walks raw schema JSON and counts limitDisclosure keys.
// allTrue is false when any value is not boolean true or when count is zero.
func ScanDisclosure(value any) (count int, allTrue bool) {
	allTrue = true
	var walk func(node any)
	walk = func(node any) {
		switch typed := node.(type) {
		case *Keywords:
			for pair := oldest(typed); pair != nil; pair = pair.Next() {
				if pair.Key == keywordLimitDisclosure {
					count++
					if flag, ok := pair.Value.(bool); !ok || !flag {
						allTrue = false
					}
				}

				walk(pair.Value)
			}
		case []any:
			for _, item := range typed {
				walk(item)
			}
		}
	}

	walk(value)
	return count, count > 0 && allTrue
}

// mapFields returns deep copy of tree with fn applied to every field and item field.
func mapFields(fields []Field, fn func(field *Field, item bool)) []Field {
	out := CloneFields(fields)
	for index := range out {
		updateField(&out[index], false, fn)
	}

	return out
}

// updateField applies fn to field and its subtree in place.
func updateField(field *Field, item bool, fn func(field *Field, item bool)) {
	fn(field, item)
	for index := range field.Properties {
		updateField(&field.Properties[index], false, fn)
	}

	if field.Items == nil {
		return
	}

	if field.Items.Single != nil {
		updateField(field.Items.Single, true, fn)
	}

	for index := range field.Items.Tuple {
		updateField(&field.Items.Tuple[index], true, fn)
	}
}

// walkFields visits every field and item field in display order.
func walkFields(fields []Field, visit func(field Field)) {
	for _, field := range fields {
		visit(field)
		walkFields(field.Properties, visit)
		if field.Items == nil {
			continue
		}

		if field.Items.Single != nil {
			walkFields([]Field{*field.Items.Single}, visit)
		}

		walkFields(field.Items.Tuple, visit)
	}
}
