// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/credschema

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// errLoadConfig is returned when config file cannot be read or decoded.
var errLoadConfig = errors.New("load config")

// fileConfig is the YAML config file model. Nil members were not set.
type fileConfig struct {
	Format           *string `yaml:"format"`
	LimitDisclosure  *bool   `yaml:"limitDisclosure"`
	Policy           *string `yaml:"policy"`
	KeepRootMetadata *bool   `yaml:"keepRootMetadata"`
}

// settings is the effective engine configuration after flags override the file.
type settings struct {
	Format             string
	Policy             string
	LimitDisclosure    bool
	LimitDisclosureSet bool
	KeepRootMetadata   bool
}

// loadConfig decodes YAML config file, rejecting unknown keys.
func loadConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%w: %w", errLoadConfig, err)
	}

	var config fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, fmt.Errorf("%w %q: %w", errLoadConfig, path, err)
	}

	return config, nil
}

// resolveSettings merges config file values with command line flags.
func resolveSettings(engine engineFlags) (settings, error) {
	var out settings
	if path := strings.TrimSpace(engine.ConfigPath); path != "" {
		config, err := loadConfig(path)
		if err != nil {
			return settings{}, err
		}

		out = config.settings()
	}

	if format := strings.TrimSpace(engine.Format); format != "" {
		out.Format = format
	}

	if policy := strings.TrimSpace(engine.Policy); policy != "" {
		out.Policy = policy
	}

	if engine.LimitDisclosure != "" {
		flag, err := strconv.ParseBool(engine.LimitDisclosure)
		if err != nil {
			return settings{}, fmt.Errorf("parse --limit-disclosure: %w", err)
		}

		out.LimitDisclosure = flag
		out.LimitDisclosureSet = true
	}

	if engine.KeepRootMetadata {
		out.KeepRootMetadata = true
	}

	return out, nil
}

// settings converts set config members into settings.
func (config fileConfig) settings() settings {
	var out settings
	if config.Format != nil {
		out.Format = strings.TrimSpace(*config.Format)
	}

	if config.Policy != nil {
		out.Policy = strings.TrimSpace(*config.Policy)
	}

	if config.LimitDisclosure != nil {
		out.LimitDisclosure = *config.LimitDisclosure
		out.LimitDisclosureSet = true
	}

	if config.KeepRootMetadata != nil {
		out.KeepRootMetadata = *config.KeepRootMetadata
	}

	return out
}
