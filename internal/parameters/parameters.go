// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

// Package parameters resolves the runtime parameters a suite runner needs
// to start a testrun. Parameters arrive through one of two mutually
// exclusive sources: the cluster-native testrun resources when running
// under the ETOS controller, or a legacy TERCC event delivered through the
// environment. Every parameter is resolved lazily on first use and cached
// for the lifetime of the process.
package parameters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/package-url/packageurl-go"

	etosv1alpha1 "github.com/andmat900/etos-suite-runner/api/v1alpha1"
	"github.com/andmat900/etos-suite-runner/internal/eiffel"
)

// Environment variables consulted during resolution.
const (
	// EnvIdentifier holds the testrun id. Its presence also gates ETOS
	// controller mode.
	EnvIdentifier = "IDENTIFIER"
	// EnvArtifact holds an explicit id of the artifact under test.
	EnvArtifact = "ARTIFACT"
	// EnvTERCC holds the inline JSON payload of the legacy TERCC event.
	EnvTERCC = "TERCC"
	// EnvTestRun holds the name of the testrun resource to read in
	// controller mode.
	EnvTestRun = "TESTRUN"
	// EnvIdentity holds an explicit package-URL identity of the artifact
	// under test.
	EnvIdentity = "IDENTITY"
)

// Cache keys for the resolved parameters.
const (
	keyTestRunID       = "testrun_id"
	keyIUTID           = "iut_id"
	keyProduct         = "product"
	keyTERCC           = "tercc"
	keyArtifactCreated = "artifact_created"
	keyTestSuites      = "test_suite"
)

// ErrNoArtifactProvider is returned when an artifact lookup is needed but
// no event repository was configured.
var ErrNoArtifactProvider = errors.New("no event repository configured for artifact lookups")

// ErrNoClusterSource is returned when a testrun resource read is needed
// but no Kubernetes client was configured.
var ErrNoClusterSource = errors.New("no Kubernetes client configured for testrun resources")

// ArtifactProvider looks up the artifact created event for the artifact
// under test, either directly by id or through the TERCC that the testrun
// was triggered by.
type ArtifactProvider interface {
	ArtifactByID(ctx context.Context, id string) (*eiffel.ArtifactCreated, error)
	ArtifactByTERCC(ctx context.Context, tercc *eiffel.TERCC) (*eiffel.ArtifactCreated, error)
}

// Options configures a Parameters instance.
type Options struct {
	Logger *slog.Logger
	// Cluster reads testrun resources in controller mode. May be nil in
	// legacy event mode.
	Cluster *ClusterSource
	// Artifacts looks up artifact created events. May be nil when both
	// ARTIFACT and IDENTITY are provided through the environment.
	Artifacts ArtifactProvider
	// HTTPClient downloads suite batches declared by reference. Defaults
	// to http.DefaultClient.
	HTTPClient eiffel.Doer
	// LookupEnv defaults to os.LookupEnv. Overridable for tests.
	LookupEnv func(string) (string, bool)
}

// Parameters is the facade over all parameter resolution for one testrun
// process. Safe for concurrent use.
type Parameters struct {
	logger     *slog.Logger
	cache      *Cache
	resolver   *IDResolver
	cluster    *ClusterSource
	artifacts  ArtifactProvider
	httpClient eiffel.Doer
	lookupEnv  func(string) (string, bool)
}

// New creates a Parameters instance with its own cache and status register.
func New(opts Options) *Parameters {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cache := NewCache()
	return &Parameters{
		logger:     logger,
		cache:      cache,
		resolver:   NewIDResolver(cache, lookupEnv),
		cluster:    opts.Cluster,
		artifacts:  opts.Artifacts,
		httpClient: httpClient,
		lookupEnv:  lookupEnv,
	}
}

// ClusterController reports whether the suite runner is running as a part
// of the ETOS controller.
func (p *Parameters) ClusterController() bool {
	_, ok := p.lookupEnv(EnvIdentifier)
	return ok
}

// SetStatus sets the environment provider status.
func (p *Parameters) SetStatus(state State, errorMessage string) {
	p.logger.Debug("Setting environment status", "state", state, "error", errorMessage)
	p.cache.SetStatus(state, errorMessage)
}

// GetStatus returns a copy of the environment provider status.
func (p *Parameters) GetStatus() Status {
	return p.cache.GetStatus()
}

// TERCC returns the legacy TERCC event from the environment. An absent
// TERCC variable parses as an empty event.
func (p *Parameters) TERCC() (*eiffel.TERCC, error) {
	if value, ok := p.cache.Get(keyTERCC); ok {
		return value.(*eiffel.TERCC), nil
	}
	tercc, err := p.parseTERCCEnv()
	if err != nil {
		return nil, err
	}
	p.cache.Set(keyTERCC, tercc)
	return tercc, nil
}

func (p *Parameters) parseTERCCEnv() (*eiffel.TERCC, error) {
	raw, ok := p.lookupEnv(EnvTERCC)
	if !ok || raw == "" {
		raw = "{}"
	}
	return eiffel.ParseTERCC([]byte(raw))
}

// TestRunID returns the id of the testrun, from the IDENTIFIER variable or
// the TERCC event.
func (p *Parameters) TestRunID() (string, error) {
	tercc, err := p.TERCC()
	if err != nil {
		return "", err
	}
	return p.resolver.Resolve(keyTestRunID, EnvIdentifier, EventID(tercc.Meta))
}

// ArtifactCreated returns the artifact created event for the artifact
// under test, looked up by the ARTIFACT variable when set, otherwise
// through the TERCC's cause.
func (p *Parameters) ArtifactCreated(ctx context.Context) (*eiffel.ArtifactCreated, error) {
	if value, ok := p.cache.Get(keyArtifactCreated); ok {
		return value.(*eiffel.ArtifactCreated), nil
	}
	if p.artifacts == nil {
		return nil, ErrNoArtifactProvider
	}

	var artifact *eiffel.ArtifactCreated
	if id, ok := p.lookupEnv(EnvArtifact); ok {
		found, err := p.artifacts.ArtifactByID(ctx, id)
		if err != nil {
			return nil, err
		}
		artifact = found
	} else {
		tercc, err := p.TERCC()
		if err != nil {
			return nil, err
		}
		found, err := p.artifacts.ArtifactByTERCC(ctx, tercc)
		if err != nil {
			return nil, err
		}
		artifact = found
	}
	p.cache.Set(keyArtifactCreated, artifact)
	return artifact, nil
}

// ArtifactID returns the id of the artifact that is under test. When the
// ARTIFACT variable is set it wins, so the event repository is not
// consulted in that case.
func (p *Parameters) ArtifactID(ctx context.Context) (string, error) {
	if value, ok := p.cache.Get(keyIUTID); ok {
		return value.(string), nil
	}
	src := NoID()
	if _, ok := p.lookupEnv(EnvArtifact); !ok {
		artifact, err := p.ArtifactCreated(ctx)
		if err != nil {
			return "", err
		}
		if artifact != nil {
			src = EventID(artifact.Meta)
		}
	}
	return p.resolver.Resolve(keyIUTID, EnvArtifact, src)
}

// Product returns the product name of the artifact under test, the name
// component of its package-URL identity. An absent identity yields no
// product; that is a valid outcome, not an error.
func (p *Parameters) Product(ctx context.Context) (string, error) {
	if value, ok := p.cache.Get(keyProduct); ok {
		return value.(string), nil
	}
	identity, ok := p.lookupEnv(EnvIdentity)
	if !ok {
		artifact, err := p.ArtifactCreated(ctx)
		if err != nil {
			return "", err
		}
		if artifact != nil {
			identity = artifact.Data.Identity
		}
	}
	if identity == "" {
		return "", nil
	}
	purl, err := packageurl.FromString(identity)
	if err != nil {
		return "", fmt.Errorf("failed to parse artifact identity %q: %w", identity, err)
	}
	p.cache.Set(keyProduct, purl.Name)
	return purl.Name, nil
}

// TestSuites returns the test suites of this testrun, from the testrun
// resource in controller mode or from the TERCC event in legacy mode.
// The first call resolves under the cache lock and may block on network;
// concurrent callers wait for it and then share the cached result.
func (p *Parameters) TestSuites(ctx context.Context) ([]etosv1alpha1.Suite, error) {
	value, err := p.cache.ResolveOnce(keyTestSuites, func() (any, error) {
		if name, ok := p.lookupEnv(EnvTestRun); ok {
			if p.cluster == nil {
				return nil, ErrNoClusterSource
			}
			suites, err := p.cluster.Suites(ctx, name)
			if err != nil {
				return nil, err
			}
			return suites, nil
		}
		// The cache lock is held here, so the TERCC payload is parsed
		// fresh instead of going through the cached accessor.
		tercc, err := p.parseTERCCEnv()
		if err != nil {
			return nil, err
		}
		batches, err := eiffel.Batches(ctx, p.httpClient, tercc)
		if err != nil {
			return nil, err
		}
		suites, err := eiffel.Suites(batches)
		if err != nil {
			return nil, err
		}
		return suites, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]etosv1alpha1.Suite), nil
}

// Environments returns the environments created for this testrun.
func (p *Parameters) Environments(ctx context.Context) ([]etosv1alpha1.Environment, error) {
	if p.cluster == nil {
		return nil, ErrNoClusterSource
	}
	testrunID, err := p.TestRunID()
	if err != nil {
		return nil, err
	}
	return p.cluster.Environments(ctx, testrunID)
}

// EnvironmentRequests returns the environment requests created for this
// testrun.
func (p *Parameters) EnvironmentRequests(ctx context.Context) ([]etosv1alpha1.EnvironmentRequest, error) {
	if p.cluster == nil {
		return nil, ErrNoClusterSource
	}
	testrunID, err := p.TestRunID()
	if err != nil {
		return nil, err
	}
	return p.cluster.EnvironmentRequests(ctx, testrunID)
}

// MainSuiteIDs returns the ids to set on the main test suite started
// events, used to correlate environments with their main test suites. In
// controller mode the ids come from the environment requests; in legacy
// mode one fresh id is generated per test suite.
func (p *Parameters) MainSuiteIDs(ctx context.Context) ([]string, error) {
	if !p.ClusterController() {
		suites, err := p.TestSuites(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(suites))
		for range suites {
			ids = append(ids, uuid.New().String())
		}
		return ids, nil
	}

	requests, err := p.EnvironmentRequests(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(requests))
	for _, request := range requests {
		ids = append(ids, request.Spec.ID)
	}
	return ids, nil
}
