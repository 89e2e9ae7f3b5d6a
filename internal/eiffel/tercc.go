// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package eiffel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	etosv1alpha1 "github.com/andmat900/etos-suite-runner/api/v1alpha1"
)

// Errors returned when the suite declaration of a TERCC cannot be resolved.
var (
	// ErrAmbiguousSource is returned when a TERCC declares both inline
	// batches and a batches URI.
	ErrAmbiguousSource = errors.New("only one of 'batches' or 'batchesUri' shall be set")
	// ErrMissingSource is returned when a TERCC declares neither inline
	// batches nor a batches URI.
	ErrMissingSource = errors.New("at least one of 'batches' or 'batchesUri' shall be set")
	// ErrUpstreamFetch is returned when the batches URI responds with a
	// non-success status.
	ErrUpstreamFetch = errors.New("failed to download test suite batches")
)

// Constraint keys recognized in TERCC recipes.
const (
	ConstraintEnvironment = "ENVIRONMENT"
	ConstraintParameters  = "PARAMETERS"
	ConstraintCommand     = "COMMAND"
	ConstraintExecute     = "EXECUTE"
	ConstraintCheckout    = "CHECKOUT"
	ConstraintTestRunner  = "TEST_RUNNER"
)

// Batch is a top-level test suite declaration within a TERCC.
type Batch struct {
	Name     string   `json:"name"`
	Priority int      `json:"priority,omitempty"`
	Recipes  []Recipe `json:"recipes"`
}

// Recipe is a single test within a batch.
type Recipe struct {
	ID          string       `json:"id"`
	TestCase    TestCase     `json:"testCase"`
	Constraints []Constraint `json:"constraints"`
}

// TestCase identifies the test case a recipe executes.
type TestCase struct {
	ID      string `json:"id"`
	Tracker string `json:"tracker,omitempty"`
	URI     string `json:"uri,omitempty"`
	Version string `json:"version,omitempty"`
}

// Constraint is an execution constraint on a recipe. Values are
// heterogeneous (strings, lists or objects depending on the key).
type Constraint struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Batches returns the test suite batches declared by a TERCC, downloading
// them when declared by reference. The ambiguity check happens before any
// network traffic.
func Batches(ctx context.Context, client Doer, tercc *TERCC) ([]Batch, error) {
	inline := tercc.Data.Batches
	uri := tercc.Data.BatchesURI
	if inline != nil && uri != nil {
		return nil, ErrAmbiguousSource
	}
	if inline != nil {
		return inline, nil
	}
	if uri != nil {
		return downloadBatches(ctx, client, *uri)
	}
	return nil, ErrMissingSource
}

func downloadBatches(ctx context.Context, client Doer, uri string) ([]Batch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", uri, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch batches from %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstreamFetch, uri, resp.StatusCode)
	}

	var batches []Batch
	if err := json.NewDecoder(resp.Body).Decode(&batches); err != nil {
		return nil, fmt.Errorf("failed to decode batches from %s: %w", uri, err)
	}
	return batches, nil
}

// Suites converts TERCC batches into the suite representation used by the
// testrun resource. The dataset is left empty as the suite runner does not
// need it.
func Suites(batches []Batch) ([]etosv1alpha1.Suite, error) {
	suites := make([]etosv1alpha1.Suite, 0, len(batches))
	for _, batch := range batches {
		suite := etosv1alpha1.Suite{
			Name:     batch.Name,
			Priority: batch.Priority,
			Tests:    make([]etosv1alpha1.Test, 0, len(batch.Recipes)),
		}
		for _, recipe := range batch.Recipes {
			exec, err := execution(recipe.Constraints)
			if err != nil {
				return nil, fmt.Errorf("recipe %s in batch %s: %w", recipe.ID, batch.Name, err)
			}
			suite.Tests = append(suite.Tests, etosv1alpha1.Test{
				ID: recipe.ID,
				TestCase: etosv1alpha1.TestCase{
					ID:      recipe.TestCase.ID,
					Tracker: recipe.TestCase.Tracker,
					URL:     recipe.TestCase.URI,
					Version: recipe.TestCase.Version,
				},
				Execution: exec,
			})
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// execution builds a test execution from recipe constraints. Unrecognized
// keys are skipped, but a recognized key whose value does not decode to the
// expected shape is an error.
func execution(constraints []Constraint) (etosv1alpha1.Execution, error) {
	var exec etosv1alpha1.Execution
	for _, constraint := range constraints {
		var err error
		switch constraint.Key {
		case ConstraintCommand:
			err = json.Unmarshal(constraint.Value, &exec.Command)
		case ConstraintTestRunner:
			err = json.Unmarshal(constraint.Value, &exec.TestRunner)
		case ConstraintCheckout:
			err = json.Unmarshal(constraint.Value, &exec.Checkout)
		case ConstraintExecute:
			err = json.Unmarshal(constraint.Value, &exec.Execute)
		case ConstraintEnvironment:
			err = json.Unmarshal(constraint.Value, &exec.Environment)
		case ConstraintParameters:
			err = json.Unmarshal(constraint.Value, &exec.Parameters)
		}
		if err != nil {
			return etosv1alpha1.Execution{}, fmt.Errorf("invalid value for constraint %s: %w", constraint.Key, err)
		}
	}
	return exec, nil
}
