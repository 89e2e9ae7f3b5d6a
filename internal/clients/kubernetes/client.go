// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

// Package kubernetes constructs the Kubernetes client used to read ETOS
// testrun resources.
package kubernetes

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	etosv1alpha1 "github.com/andmat900/etos-suite-runner/api/v1alpha1"
)

// NewScheme returns a scheme with all the resource kinds the suite runner reads.
func NewScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("failed to add client-go types to scheme: %w", err)
	}
	if err := etosv1alpha1.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("failed to add etos types to scheme: %w", err)
	}
	return scheme, nil
}

// NewClient creates a controller-runtime client from the in-cluster
// configuration, falling back to the local kubeconfig when running outside
// a cluster.
func NewClient() (client.Client, error) {
	restCfg, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load Kubernetes configuration: %w", err)
	}

	scheme, err := NewScheme()
	if err != nil {
		return nil, err
	}

	cl, err := client.New(restCfg, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	return cl, nil
}
