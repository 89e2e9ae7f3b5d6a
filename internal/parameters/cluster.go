// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package parameters

import (
	"context"
	"fmt"
	"log/slog"

	"sigs.k8s.io/controller-runtime/pkg/client"

	etosv1alpha1 "github.com/andmat900/etos-suite-runner/api/v1alpha1"
	"github.com/andmat900/etos-suite-runner/internal/labels"
)

// ClusterSource reads testrun resources from the orchestration API when
// the suite runner executes under the ETOS controller.
type ClusterSource struct {
	k8sClient client.Client
	namespace string
	logger    *slog.Logger
}

// NewClusterSource creates a cluster source reading from the given namespace.
func NewClusterSource(k8sClient client.Client, namespace string, logger *slog.Logger) *ClusterSource {
	return &ClusterSource{
		k8sClient: k8sClient,
		namespace: namespace,
		logger:    logger,
	}
}

// Suites returns the suites declared by the named testrun resource.
func (c *ClusterSource) Suites(ctx context.Context, name string) ([]etosv1alpha1.Suite, error) {
	c.logger.Debug("Getting testrun", "testrun", name, "namespace", c.namespace)

	testrun := &etosv1alpha1.TestRun{}
	key := client.ObjectKey{Name: name, Namespace: c.namespace}
	if err := c.k8sClient.Get(ctx, key, testrun); err != nil {
		return nil, fmt.Errorf("failed to get testrun %s: %w", name, err)
	}
	return testrun.Spec.Suites, nil
}

// Environments lists the environments created for a testrun. An empty
// result is valid; it means no environments have been created yet.
func (c *ClusterSource) Environments(ctx context.Context, testrunID string) ([]etosv1alpha1.Environment, error) {
	c.logger.Debug("Listing environments", "testrun-id", testrunID, "namespace", c.namespace)

	var environmentList etosv1alpha1.EnvironmentList
	listOpts := []client.ListOption{
		client.InNamespace(c.namespace),
		client.MatchingLabels{labels.LabelKeyID: testrunID},
	}
	if err := c.k8sClient.List(ctx, &environmentList, listOpts...); err != nil {
		return nil, fmt.Errorf("failed to list environments for testrun %s: %w", testrunID, err)
	}
	return environmentList.Items, nil
}

// EnvironmentRequests lists the environment requests created for a
// testrun. An empty result is valid.
func (c *ClusterSource) EnvironmentRequests(ctx context.Context, testrunID string) ([]etosv1alpha1.EnvironmentRequest, error) {
	c.logger.Debug("Listing environment requests", "testrun-id", testrunID, "namespace", c.namespace)

	var requestList etosv1alpha1.EnvironmentRequestList
	listOpts := []client.ListOption{
		client.InNamespace(c.namespace),
		client.MatchingLabels{labels.LabelKeyID: testrunID},
	}
	if err := c.k8sClient.List(ctx, &requestList, listOpts...); err != nil {
		return nil, fmt.Errorf("failed to list environment requests for testrun %s: %w", testrunID, err)
	}
	return requestList.Items, nil
}
