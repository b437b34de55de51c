// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

/*
Package credschema converts credential JSON Schemas into an editable field
list and back.

A schema "properties" tree becomes an ordered []Field: one entry per
property with name, type, required flag, the limitDisclosure marker and any
other keywords carried through untouched. Generation rebuilds the schema from
the list, so parse and generate round-trip. Root keywords the list cannot
hold ($schema, title, $defs) live in a Memo that the caller passes back.

Parse and generate:

	fields, memo, err := credschema.ParseText(schemaBytes, credschema.Context{
		Format: "mso_mdoc",
	}, credschema.FormatPolicy{})
	if err != nil {
		return err
	}

	out, err := credschema.GenerateText(fields, credschema.Context{
		Format: "mso_mdoc",
	}, credschema.FormatPolicy{}, memo)
	if err != nil {
		return err
	}

	fmt.Print(string(out))

Select limitDisclosure semantics by name ("cascade", "format", "label"):

	policy, err := credschema.PolicyByName("cascade")
	if err != nil {
		return err
	}

Edit a schema in a session:

	editor, err := credschema.NewEditor(credschema.Options{Policy: policy})
	if err != nil {
		return err
	}

	if _, err := editor.Load(schemaBytes); err != nil {
		return err
	}

	path, err := editor.AddSection(nil)
	if err != nil {
		return err
	}

	if err := editor.Rename(path, "given_name"); err != nil {
		return err
	}

	if err := editor.SetLimitDisclosure(true); err != nil {
		return err
	}

	fmt.Print(string(editor.Schema()))

Build a sample payload or a markdown field table:

	example, err := credschema.GenerateExample(fields, memo,
		credschema.ExampleModeRequired, credschema.ExampleFormatYAML)
	if err != nil {
		return err
	}

	md, err := credschema.RenderMarkdown(fields, memo, credschema.RenderOptions{
		TemplateName: "table",
	})
	if err != nil {
		return err
	}
*/
package credschema
