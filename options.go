// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"log/slog"
	"strings"
)

// Known credential format discriminators.
const (
	// FormatJWT strips limitDisclosure under the format policy.
	FormatJWT = "jwt"
	// FormatMsoMdoc suppresses additionalProperties on parse and generate.
	FormatMsoMdoc = "mso_mdoc"
)

// Context is the ambient format context of one parse or generate call.
type Context struct {
	// Format is the credential format discriminator, for example "jwt" or "mso_mdoc".
	Format string
	// LimitDisclosure is the ambient disclosure flag used by cascade and label policies.
	LimitDisclosure bool
}

// suppressAdditionalProperties reports whether additionalProperties must be dropped.
func (ctx Context) suppressAdditionalProperties() bool {
	return ctx.Format == FormatMsoMdoc
}

// Options configures Editor sessions and text helpers.
type Options struct {
	// Policy decides limitDisclosure semantics; nil selects FormatPolicy.
	Policy DisclosurePolicy
	// Logger receives soft-fail diagnostics; nil discards them.
	Logger *slog.Logger
	// Context is the initial format context.
	Context Context
	// KeepRootMetadata carries memo root keywords such as $schema, title and $defs
	// into generated schemas that have fields.
	KeepRootMetadata bool
}

// normalizeOptions fills default policy and logger.
func normalizeOptions(opt Options) Options {
	if opt.Policy == nil {
		opt.Policy = FormatPolicy{}
	}

	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}

	opt.Context.Format = strings.TrimSpace(opt.Context.Format)
	return opt
}
