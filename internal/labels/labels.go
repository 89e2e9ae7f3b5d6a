// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package labels

// This file contains the labels that are used to store ETOS specific metadata in the Kubernetes objects.

const (
	// LabelKeyID correlates Environment and EnvironmentRequest objects with
	// the testrun they were created for.
	LabelKeyID = "etos.eiffel-community.github.io/id"

	// LabelKeySuiteID correlates an Environment with its main test suite.
	LabelKeySuiteID = "etos.eiffel-community.github.io/suite-id"

	// LabelKeyCluster identifies the ETOS cluster a testrun executes in.
	LabelKeyCluster = "etos.eiffel-community.github.io/cluster"
)
