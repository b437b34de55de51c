// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"regexp"
	"strings"
)

// DraftInfo describes JSON Schema draft detected from "$schema" URI.
type DraftInfo struct {
	// URI is the trimmed input value.
	URI string
	// Canonical is normalized draft name such as "2020-12" or "draft-07".
	Canonical string
	// Supported reports whether draft is known to the field list model.
	Supported bool
}

var (
	// datedDraftPattern matches 2019-09 and newer dated drafts.
	datedDraftPattern = regexp.MustCompile(`(?:^|/)(\d{4}-\d{2})(?:/|$)`)
	// numberedDraftPattern matches draft-04 .. draft-07 style drafts.
	numberedDraftPattern = regexp.MustCompile(`(?:^|/)draft-0?(\d+)(?:/|$)`)
)

// supportedDrafts lists canonical drafts whose keywords map onto the field model.
var supportedDrafts = map[string]struct{}{
	"draft-04": {},
	"draft-05": {},
	"draft-06": {},
	"draft-07": {},
	"2019-09":  {},
	"2020-12":  {},
}

// DetectDraft normalizes "$schema" URI and reports draft support.
func DetectDraft(uri string) DraftInfo {
	info := DraftInfo{URI: strings.TrimSpace(uri)}
	if info.URI == "" {
		return info
	}

	normalized := strings.TrimSuffix(info.URI, "#")
	normalized = strings.TrimSuffix(normalized, "/schema")
	normalized = strings.TrimSuffix(normalized, "/")

	switch {
	case datedDraftPattern.MatchString(normalized):
		info.Canonical = datedDraftPattern.FindStringSubmatch(normalized)[1]
	case numberedDraftPattern.MatchString(normalized):
		number := numberedDraftPattern.FindStringSubmatch(normalized)[1]
		if len(number) == 1 {
			number = "0" + number
		}

		info.Canonical = "draft-" + number
	default:
		return info
	}

	_, info.Supported = supportedDrafts[info.Canonical]
	return info
}
