// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package credschema

import (
	"errors"
	"slices"
	"testing"
)

const disclosureSchema = `{
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "number", "limitDisclosure": false},
    "tags": {"type": "array", "items": {"type": "string"}},
    "addresses": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"city": {"type": "string"}}
      }
    }
  }
}`

func TestCascadePolicyParseInheritsAmbientFlag(t *testing.T) {
	t.Parallel()

	fields, _ := mustParseText(t, disclosureSchema, Context{LimitDisclosure: true}, CascadePolicy{})

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"name", fields[0].LimitDisclosure, true},
		{"age", fields[1].LimitDisclosure, false},
		{"tags", fields[2].LimitDisclosure, true},
		{"tags[]", fields[2].Items.Single.LimitDisclosure, nil},
		{"addresses", fields[3].LimitDisclosure, true},
		{"addresses[]", fields[3].Items.Single.LimitDisclosure, true},
		{"addresses[].city", fields[3].Items.Single.Properties[0].LimitDisclosure, true},
	}

	for _, check := range checks {
		if check.got != check.want {
			t.Fatalf("%s limitDisclosure = %#v, want %#v", check.name, check.got, check.want)
		}
	}

	if (CascadePolicy{}).Ambient(fields, Context{}) {
		t.Fatal("ambient flag must be false while one field holds false")
	}
}

func TestCascadePolicyApplyOverwritesTree(t *testing.T) {
	t.Parallel()

	policy := CascadePolicy{}
	fields, _ := mustParseText(t, disclosureSchema, Context{}, policy)

	enabled := policy.Apply(fields, Context{LimitDisclosure: true})
	if !policy.Ambient(enabled, Context{}) {
		t.Fatal("ambient flag must be true after enabling")
	}

	if enabled[2].Items.Single.LimitDisclosure != nil {
		t.Fatalf("scalar items limitDisclosure = %#v, want nil", enabled[2].Items.Single.LimitDisclosure)
	}

	if fields[0].LimitDisclosure != false {
		t.Fatalf("Apply mutated input: %#v", fields[0].LimitDisclosure)
	}

	disabled := policy.Apply(enabled, Context{LimitDisclosure: false})
	if policy.Ambient(disabled, Context{}) {
		t.Fatal("ambient flag must be false after disabling")
	}

	if policy.Ambient(nil, Context{}) {
		t.Fatal("ambient flag of empty tree must be false")
	}
}

func TestFormatPolicyKeepsExplicitValuesOnly(t *testing.T) {
	t.Parallel()

	policy := FormatPolicy{}
	fields, _ := mustParseText(t, disclosureSchema, Context{LimitDisclosure: true}, policy)

	if fields[0].LimitDisclosure != nil {
		t.Fatalf("name limitDisclosure = %#v, want nil", fields[0].LimitDisclosure)
	}

	if fields[1].LimitDisclosure != false {
		t.Fatalf("age limitDisclosure = %#v, want false", fields[1].LimitDisclosure)
	}

	jwt, _ := mustParseText(t, disclosureSchema, Context{Format: FormatJWT}, policy)
	walkFields(jwt, func(field Field) {
		if field.LimitDisclosure != nil {
			t.Fatalf("jwt field %q keeps limitDisclosure %#v", field.Name, field.LimitDisclosure)
		}
	})

	if got := policy.Initial(Context{Format: FormatJWT, LimitDisclosure: true}); got != nil {
		t.Fatalf("jwt Initial = %#v, want nil", got)
	}

	if got := policy.Initial(Context{Format: "vc+sd-jwt", LimitDisclosure: true}); got != true {
		t.Fatalf("sd-jwt Initial = %#v, want true", got)
	}
}

func TestLabelPolicyLabelsEveryNode(t *testing.T) {
	t.Parallel()

	policy := LabelPolicy{}
	fields, _ := mustParseText(t, disclosureSchema, Context{}, policy)
	walkFields(fields, func(field Field) {
		if field.LimitDisclosure != nil {
			t.Fatalf("label policy must not store parsed values, got %#v", field.LimitDisclosure)
		}
	})

	for flag, want := range map[bool]string{true: DisclosureRequired, false: DisclosureOptional} {
		if got := policy.OnGenerate(Field{}, Context{LimitDisclosure: flag}); got != want {
			t.Fatalf("OnGenerate(flag=%t) = %#v, want %q", flag, got, want)
		}
	}

	text := mustGenerateText(t, fields, Context{LimitDisclosure: false}, policy, nil)
	assertContains(t, text, `"limitDisclosure": "optional"`)
	assertNotContains(t, text, `"limitDisclosure": "required"`)
}

func TestPolicyByName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":          PolicyFormat,
		"format":    PolicyFormat,
		" Cascade ": PolicyCascade,
		"LABEL":     PolicyLabel,
	}

	for input, want := range cases {
		policy, err := PolicyByName(input)
		if err != nil {
			t.Fatalf("PolicyByName(%q): %v", input, err)
		}

		if policy.Name() != want {
			t.Fatalf("PolicyByName(%q) = %q, want %q", input, policy.Name(), want)
		}
	}

	if _, err := PolicyByName("strict"); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("PolicyByName(strict) error = %v, want ErrUnknownPolicy", err)
	}

	if got, want := PolicyNames(), []string{PolicyCascade, PolicyFormat, PolicyLabel}; !slices.Equal(got, want) {
		t.Fatalf("PolicyNames() = %v, want %v", got, want)
	}
}

func TestScanDisclosure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		input     string
		wantCount int
		wantAll   bool
	}{
		{name: "none", input: `{"properties": {"a": {}}}`, wantCount: 0, wantAll: false},
		{name: "all true", input: `{"properties": {"a": {"limitDisclosure": true}, "b": {"items": [{"limitDisclosure": true}]}}}`, wantCount: 2, wantAll: true},
		{name: "mixed", input: `{"properties": {"a": {"limitDisclosure": true}, "b": {"limitDisclosure": "required"}}}`, wantCount: 2, wantAll: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			count, allTrue := ScanDisclosure(mustDecode(t, tc.input))
			if count != tc.wantCount || allTrue != tc.wantAll {
				t.Fatalf("ScanDisclosure = (%d, %t), want (%d, %t)", count, allTrue, tc.wantCount, tc.wantAll)
			}
		})
	}
}
