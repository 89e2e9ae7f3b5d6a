// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides the operational configuration for the suite runner.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// namespaceFile is where the in-cluster service account namespace is mounted.
const namespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// Config holds the runner's operational settings. The testrun resolution
// inputs (IDENTIFIER, ARTIFACT, TERCC, TESTRUN, IDENTITY) are not part of
// this struct; they are read by the parameters package.
type Config struct {
	// Namespace is the namespace where ETOS testrun resources live.
	Namespace string `koanf:"namespace"`
	// GraphQLServer is the URL of the Eiffel event repository API.
	GraphQLServer string `koanf:"graphql_server"`
	// HTTPTimeout bounds outgoing HTTP requests (suite downloads, event lookups).
	HTTPTimeout time.Duration `koanf:"http_timeout"`
	LogLevel    string        `koanf:"log_level"`
	LogFormat   string        `koanf:"log_format"`
}

// defaults returns the built-in configuration defaults.
func defaults() Config {
	return Config{
		Namespace:   serviceAccountNamespace(),
		HTTPTimeout: time.Minute,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Load reads configuration from the ETOS_ environment variables on top of
// the defaults, e.g. ETOS_GRAPHQL_SERVER -> graphql_server.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	envProvider := env.Provider("ETOS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ETOS_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace must be set (ETOS_NAMESPACE)")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// serviceAccountNamespace reads the namespace this process runs in when
// deployed in-cluster. Falls back to "default" outside a cluster.
func serviceAccountNamespace() string {
	data, err := os.ReadFile(namespaceFile)
	if err != nil {
		return "default"
	}
	if ns := strings.TrimSpace(string(data)); ns != "" {
		return ns
	}
	return "default"
}
