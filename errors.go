// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import "errors"

var (
	// ErrMalformedInput is returned when schema or field text is not valid JSON.
	ErrMalformedInput = errors.New("malformed input")
	// ErrSchemaRootType is returned when schema root is not a JSON object.
	ErrSchemaRootType = errors.New("schema root must be object")
	// ErrEncodeSchema is returned when generated schema encoding fails.
	ErrEncodeSchema = errors.New("encode schema")
	// ErrDecodeFields is returned when field document decoding fails.
	ErrDecodeFields = errors.New("decode fields")
	// ErrEncodeFields is returned when field document encoding fails.
	ErrEncodeFields = errors.New("encode fields")
	// ErrUnknownPolicy is returned when disclosure policy name is not registered.
	ErrUnknownPolicy = errors.New("unknown disclosure policy")
	// ErrFieldNotFound is returned when editor path does not address a field.
	ErrFieldNotFound = errors.New("field not found")
	// ErrDuplicateName is returned when rename clashes with a sibling field name.
	ErrDuplicateName = errors.New("duplicate field name")
	// ErrUnknownType is returned when field type is not one of the editable types.
	ErrUnknownType = errors.New("unknown field type")
	// ErrUnknownExampleMode is returned when example generation mode is not supported.
	ErrUnknownExampleMode = errors.New("unknown example mode")
	// ErrUnknownExampleFormat is returned when example generation format is not supported.
	ErrUnknownExampleFormat = errors.New("unknown example format")
	// ErrEncodeExampleJSON is returned when generated example JSON encoding fails.
	ErrEncodeExampleJSON = errors.New("encode example json")
	// ErrEncodeExampleYAML is returned when generated example YAML encoding fails.
	ErrEncodeExampleYAML = errors.New("encode example yaml")
	// ErrExecuteMarkdownTemplate is returned when markdown template execution fails.
	ErrExecuteMarkdownTemplate = errors.New("execute markdown template")
	// ErrParseMarkdownTemplate is returned when markdown template parsing fails.
	ErrParseMarkdownTemplate = errors.New("parse markdown template")
	// ErrUnknownBuiltinTemplate is returned when built-in template name is unknown.
	ErrUnknownBuiltinTemplate = errors.New("unknown built-in template")
	// ErrReadBuiltinTemplate is returned when built-in template file cannot be read.
	ErrReadBuiltinTemplate = errors.New("read built-in template")
)
