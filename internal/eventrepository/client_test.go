// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package eventrepository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andmat900/etos-suite-runner/internal/eiffel"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// graphqlServer serves a canned artifact created response for one artifact id.
func graphqlServer(t *testing.T, artifactID, identity string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var request struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.Unmarshal(body, &request))
		require.Contains(t, request.Query, "artifactCreated")

		var edges []map[string]any
		if strings.Contains(request.Query, artifactID) {
			edges = append(edges, map[string]any{
				"node": map[string]any{
					"data": map[string]any{"identity": identity},
					"meta": map[string]any{"id": artifactID},
				},
			})
		}
		response := map[string]any{
			"data": map[string]any{
				"artifactCreated": map[string]any{"edges": edges},
			},
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func TestArtifactByID(t *testing.T) {
	server := graphqlServer(t, "7c2b6c13-8dea-4c99-a337-0490269c374d", "pkg:pypi/mytool@1.0")
	defer server.Close()

	client := New(server.URL, server.Client(), testLogger())
	artifact, err := client.ArtifactByID(context.Background(), "7c2b6c13-8dea-4c99-a337-0490269c374d")
	require.NoError(t, err)
	assert.Equal(t, "7c2b6c13-8dea-4c99-a337-0490269c374d", artifact.Meta.ID)
	assert.Equal(t, "pkg:pypi/mytool@1.0", artifact.Data.Identity)
}

func TestArtifactByIDNotFound(t *testing.T) {
	server := graphqlServer(t, "known-artifact", "pkg:pypi/mytool@1.0")
	defer server.Close()

	client := New(server.URL, server.Client(), testLogger())
	_, err := client.ArtifactByID(context.Background(), "missing-artifact")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArtifactByTERCC(t *testing.T) {
	server := graphqlServer(t, "cause-artifact", "pkg:deb/debian/curl@7.68.0")
	defer server.Close()

	tercc := &eiffel.TERCC{
		Meta:  eiffel.Meta{ID: "tercc-id"},
		Links: []eiffel.Link{{Type: eiffel.LinkTypeCause, Target: "cause-artifact"}},
	}

	client := New(server.URL, server.Client(), testLogger())
	artifact, err := client.ArtifactByTERCC(context.Background(), tercc)
	require.NoError(t, err)
	assert.Equal(t, "cause-artifact", artifact.Meta.ID)
}

func TestArtifactByTERCCWithoutCauseLink(t *testing.T) {
	client := New("http://event-repository.test", nil, testLogger())
	_, err := client.ArtifactByTERCC(context.Background(), &eiffel.TERCC{Meta: eiffel.Meta{ID: "tercc-id"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAUSE")
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "graphql error in response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"errors": [{"message": "syntax error"}]}`)
			},
		},
		{
			name: "malformed response body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "not json")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := New(server.URL, server.Client(), testLogger())
			_, err := client.ArtifactByID(context.Background(), "some-artifact")
			assert.Error(t, err)
		})
	}
}
