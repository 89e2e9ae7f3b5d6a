// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Namespace)
	assert.Equal(t, time.Minute, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.GraphQLServer)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ETOS_NAMESPACE", "production-etos")
	t.Setenv("ETOS_GRAPHQL_SERVER", "http://event-repository/graphql")
	t.Setenv("ETOS_HTTP_TIMEOUT", "30s")
	t.Setenv("ETOS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production-etos", cfg.Namespace)
	assert.Equal(t, "http://event-repository/graphql", cfg.GraphQLServer)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Namespace: "etos", HTTPTimeout: time.Minute},
		},
		{
			name:    "missing namespace",
			cfg:     Config{HTTPTimeout: time.Minute},
			wantErr: "namespace",
		},
		{
			name:    "non-positive timeout",
			cfg:     Config{Namespace: "etos"},
			wantErr: "http_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
