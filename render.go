// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// defaultTitle is used when caller does not provide custom title.
	defaultTitle = "credential schema fields"
	// defaultTemplateName is used when caller does not provide template name.
	defaultTemplateName = templateTableName
	// defaultWrapWidth wraps plain description paragraphs at this width.
	defaultWrapWidth = 80
)

const (
	templateListName  = "list"
	templateTableName = "table"
)

// RenderOptions configures markdown field summary rendering.
type RenderOptions struct {
	// Policy decides rendered limitDisclosure values; nil selects FormatPolicy.
	Policy DisclosurePolicy
	// Title is the document heading.
	Title string
	// SourcePath is shown as schema source, "(memory)" when empty.
	SourcePath string
	// TemplateName selects built-in template: "table" (default) or "list".
	TemplateName string
	// TemplateText replaces built-in template when not empty.
	TemplateText string
	// ExampleMode embeds example payload block when set.
	ExampleMode ExampleMode
	// ExampleFormat selects embedded example encoding, JSON by default.
	ExampleFormat ExampleFormat
	// Context is the format context used for limitDisclosure rendering.
	Context Context
	// WrapWidth wraps list template descriptions, 80 when not positive.
	WrapWidth int
}

// renderView is the root view model passed to markdown templates.
type renderView struct {
	Title              string
	SourceSchema       string
	SchemaID           string
	SchemaDraft        string
	SchemaDraftSupport string
	Format             string
	Example            string
	ExampleFormat      string
	Definitions        []string
	Dangling           []string
	Fields             []fieldView
}

// fieldView represents one flattened field row or section.
type fieldView struct {
	Path            string
	Name            string
	Type            string
	Required        string
	LimitDisclosure string
	Summary         string
	Description     string
	Attributes      []attributeView
	Depth           int
}

// attributeView is a single rendered name/value metadata item.
type attributeView struct {
	Name  string
	Value string
}

// RenderMarkdown converts field list into deterministic CommonMark summary.
// Memo, when set, contributes $schema, $id and definition names.
func RenderMarkdown(fields []Field, memo *Memo, opt RenderOptions) (string, error) {
	view, err := buildRenderView(fields, memo, opt)
	if err != nil {
		return "", err
	}

	markdownTemplate, err := resolveTemplate(opt)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := markdownTemplate.Execute(&out, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteMarkdownTemplate, err)
	}

	return ensureTrailingNewline(normalizeMarkdownOutput(out.String())), nil
}

// BuiltinTemplateNames returns all available built-in template names.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtInTemplateFiles))
	for name := range builtInTemplateFiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// BuiltinTemplate returns one built-in template by name.
func BuiltinTemplate(name string) (string, error) {
	name = normalizeTemplateName(name)
	path, ok := builtInTemplateFiles[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownBuiltinTemplate, name)
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadBuiltinTemplate, err)
	}

	return string(data), nil
}
