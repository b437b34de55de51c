// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"slices"
	"strconv"
	"strings"
)

// viewBuilder flattens field trees into markdown view rows.
type viewBuilder struct {
	policy    DisclosurePolicy
	ctx       Context
	wrapWidth int
}

// buildRenderView prepares data for markdown template rendering.
func buildRenderView(fields []Field, memo *Memo, opt RenderOptions) (renderView, error) {
	title := sanitizeText(opt.Title)
	if title == "" {
		title = defaultTitle
	}

	sourcePath := strings.TrimSpace(opt.SourcePath)
	if sourcePath == "" {
		sourcePath = "(memory)"
	}

	normalized := normalizeOptions(Options{Policy: opt.Policy, Context: opt.Context})
	builder := viewBuilder{
		policy:    normalized.Policy,
		ctx:       normalized.Context,
		wrapWidth: normalizeWrapWidth(opt.WrapWidth),
	}

	schemaID, _ := memo.Keyword("$id")
	draft := DetectDraft(memo.SchemaURI())

	view := renderView{
		Title:              title,
		SourceSchema:       escapeInline(sourcePath),
		SchemaID:           escapeInline(orNone(asString(schemaID))),
		SchemaDraft:        escapeInline(orNone(draft.URI)),
		SchemaDraftSupport: draftSupportText(draft),
		Format:             escapeInline(orNone(normalized.Context.Format)),
		Definitions:        memo.Definitions(),
		Dangling:           DanglingReferences(fields, memo),
	}

	builder.appendFields(&view.Fields, fields, "", 0)

	if opt.ExampleMode != "" {
		example, err := GenerateExample(fields, memo, opt.ExampleMode, opt.ExampleFormat)
		if err != nil {
			return renderView{}, err
		}

		format, _ := normalizeExampleFormat(opt.ExampleFormat)
		view.Example = strings.TrimRight(string(example), "\n")
		view.ExampleFormat = string(format)
	}

	return view, nil
}

// appendFields appends rows for named fields and their descendants in display order.
func (builder viewBuilder) appendFields(out *[]fieldView, fields []Field, prefix string, depth int) {
	for _, field := range fields {
		if field.Name == "" {
			continue
		}

		required := yesNo(field.Required)
		builder.appendField(out, field, appendPath(prefix, field.Name), required, depth)
	}
}

// appendField appends one row and recurses into properties or items.
func (builder viewBuilder) appendField(out *[]fieldView, field Field, path, required string, depth int) {
	description := keywordString(field.Keywords, "description")
	view := fieldView{
		Path:            escapeInline(path),
		Name:            escapeInline(field.Name),
		Type:            fieldTypeText(field),
		Required:        required,
		LimitDisclosure: builder.limitDisclosureText(field),
		Summary:         tableCell(description),
		Description:     formatDescriptionMarkdown(description, builder.wrapWidth),
		Depth:           depth,
	}
	view.Attributes = fieldAttributes(field, view)
	*out = append(*out, view)

	switch field.Type {
	case TypeObject:
		builder.appendFields(out, field.Properties, path, depth+1)
	case TypeArray:
		if field.Items == nil {
			return
		}

		if field.Items.Single != nil {
			builder.appendField(out, *field.Items.Single, appendPath(path, "[]"), "-", depth+1)
			return
		}

		for index, item := range field.Items.Tuple {
			builder.appendField(out, item, appendPath(path, "["+strconv.Itoa(index)+"]"), "-", depth+1)
		}
	}
}

// limitDisclosureText renders value the generator would emit for field.
func (builder viewBuilder) limitDisclosureText(field Field) string {
	value := builder.policy.OnGenerate(field, builder.ctx)
	if value == nil {
		return "-"
	}

	return inlineCode(mustJSONInline(value))
}

// fieldTypeText renders field type, naming the referenced definition when type is omitted.
func fieldTypeText(field Field) string {
	if field.Type != TypeArray && HasDefinitionReference(field) {
		if name := DefinitionName(keywordString(field.Keywords, "$ref")); name != "" {
			return "$ref:" + name
		}

		return "$ref"
	}

	if field.Type == "" {
		return TypeString
	}

	if slices.Contains(field.TypeUnion, field.Type) {
		return strings.Join(field.TypeUnion, ", ")
	}

	return field.Type
}

// draftSupportText renders human-friendly draft support status.
func draftSupportText(info DraftInfo) string {
	switch {
	case info.URI == "":
		return "not declared"
	case info.Supported:
		return "supported (" + info.Canonical + ")"
	case info.Canonical != "":
		return "unsupported (" + info.Canonical + ")"
	default:
		return "unknown"
	}
}
