// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package eiffel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doerFunc adapts a function to the Doer interface.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// noHTTP fails the test if any request is made.
func noHTTP(t *testing.T) Doer {
	t.Helper()
	return doerFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected HTTP request to %s", req.URL)
		return nil, nil
	})
}

func TestParseTERCC(t *testing.T) {
	payload := `{
		"meta": {"id": "577381ad-8356-4939-ab77-02e7abe06699", "type": "EiffelTestExecutionRecipeCollectionCreatedEvent"},
		"data": {"batches": [{"name": "Suite", "recipes": []}]},
		"links": [{"type": "CAUSE", "target": "7c2b6c13-8dea-4c99-a337-0490269c374d"}]
	}`

	tercc, err := ParseTERCC([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "577381ad-8356-4939-ab77-02e7abe06699", tercc.Meta.ID)
	assert.False(t, tercc.Empty())

	cause, ok := tercc.CauseLink()
	require.True(t, ok)
	assert.Equal(t, "7c2b6c13-8dea-4c99-a337-0490269c374d", cause)
}

func TestParseTERCCEmptyPayload(t *testing.T) {
	tercc, err := ParseTERCC([]byte("{}"))
	require.NoError(t, err)
	assert.True(t, tercc.Empty())

	_, ok := tercc.CauseLink()
	assert.False(t, ok)
}

func TestParseTERCCInvalidJSON(t *testing.T) {
	_, err := ParseTERCC([]byte("not json"))
	assert.Error(t, err)
}

func TestBatchesInline(t *testing.T) {
	tercc := &TERCC{
		Data: TERCCData{
			Batches: []Batch{{Name: "A"}},
		},
	}

	batches, err := Batches(context.Background(), noHTTP(t), tercc)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "A", batches[0].Name)
}

func TestBatchesAmbiguous(t *testing.T) {
	uri := "http://batches.test"
	tercc := &TERCC{
		Data: TERCCData{
			Batches:    []Batch{{Name: "A"}},
			BatchesURI: &uri,
		},
	}

	// The ambiguity check must happen before any HTTP call.
	_, err := Batches(context.Background(), noHTTP(t), tercc)
	assert.ErrorIs(t, err, ErrAmbiguousSource)
}

func TestBatchesAmbiguousWithEmptyURI(t *testing.T) {
	// An empty batchesUri key still counts as a declared source.
	tercc, err := ParseTERCC([]byte(`{"data": {"batches": [{"name": "A"}], "batchesUri": ""}}`))
	require.NoError(t, err)

	_, err = Batches(context.Background(), noHTTP(t), tercc)
	assert.ErrorIs(t, err, ErrAmbiguousSource)
}

func TestBatchesMissing(t *testing.T) {
	_, err := Batches(context.Background(), noHTTP(t), &TERCC{})
	assert.ErrorIs(t, err, ErrMissingSource)
}

func TestBatchesEmptyInlineListIsPresent(t *testing.T) {
	tercc, err := ParseTERCC([]byte(`{"data": {"batches": []}}`))
	require.NoError(t, err)

	batches, err := Batches(context.Background(), noHTTP(t), tercc)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestBatchesByReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode([]Batch{{Name: "Downloaded", Priority: 2}})
	}))
	defer server.Close()

	uri := server.URL
	tercc := &TERCC{Data: TERCCData{BatchesURI: &uri}}
	batches, err := Batches(context.Background(), server.Client(), tercc)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "Downloaded", batches[0].Name)
	assert.Equal(t, 2, batches[0].Priority)
}

func TestBatchesByReferenceUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	uri := server.URL
	tercc := &TERCC{Data: TERCCData{BatchesURI: &uri}}
	_, err := Batches(context.Background(), server.Client(), tercc)
	assert.ErrorIs(t, err, ErrUpstreamFetch)
}

func TestSuites(t *testing.T) {
	payload := `[
		{
			"name": "Regression",
			"priority": 1,
			"recipes": [
				{
					"id": "132a7499-29ad-48df-a2c8-38ccd2a0fee9",
					"testCase": {"id": "test_regression", "tracker": "Github", "uri": "https://github.com/example/tests"},
					"constraints": [
						{"key": "ENVIRONMENT", "value": {"MY_ENV": "a"}},
						{"key": "PARAMETERS", "value": {"-e": "env"}},
						{"key": "COMMAND", "value": "tox"},
						{"key": "EXECUTE", "value": ["echo hello"]},
						{"key": "CHECKOUT", "value": ["git clone https://github.com/example/tests"]},
						{"key": "TEST_RUNNER", "value": "test-runner:latest"},
						{"key": "UNRECOGNIZED", "value": "ignored"}
					]
				}
			]
		}
	]`
	var batches []Batch
	require.NoError(t, json.Unmarshal([]byte(payload), &batches))

	suites, err := Suites(batches)
	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, "Regression", suites[0].Name)
	assert.Equal(t, 1, suites[0].Priority)
	assert.Nil(t, suites[0].Dataset)

	require.Len(t, suites[0].Tests, 1)
	test := suites[0].Tests[0]
	assert.Equal(t, "132a7499-29ad-48df-a2c8-38ccd2a0fee9", test.ID)
	assert.Equal(t, "test_regression", test.TestCase.ID)
	assert.Equal(t, "Github", test.TestCase.Tracker)
	assert.Equal(t, "https://github.com/example/tests", test.TestCase.URL)
	assert.Equal(t, "tox", test.Execution.Command)
	assert.Equal(t, "test-runner:latest", test.Execution.TestRunner)
	assert.Equal(t, []string{"echo hello"}, test.Execution.Execute)
	assert.Equal(t, []string{"git clone https://github.com/example/tests"}, test.Execution.Checkout)
	assert.Equal(t, map[string]string{"MY_ENV": "a"}, test.Execution.Environment)
	assert.Equal(t, map[string]string{"-e": "env"}, test.Execution.Parameters)
}

func TestSuitesMalformedConstraint(t *testing.T) {
	// A recognized key with a value of the wrong shape is an error, not an
	// empty execution field.
	for name, payload := range map[string]string{
		"command as list":       `[{"name": "A", "recipes": [{"id": "r1", "constraints": [{"key": "COMMAND", "value": ["tox", "-e", "py3"]}]}]}]`,
		"test runner as object": `[{"name": "A", "recipes": [{"id": "r1", "constraints": [{"key": "TEST_RUNNER", "value": {"image": "runner:latest"}}]}]}]`,
		"checkout as string":    `[{"name": "A", "recipes": [{"id": "r1", "constraints": [{"key": "CHECKOUT", "value": "git clone"}]}]}]`,
	} {
		t.Run(name, func(t *testing.T) {
			var batches []Batch
			require.NoError(t, json.Unmarshal([]byte(payload), &batches))

			_, err := Suites(batches)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "r1")
		})
	}
}
