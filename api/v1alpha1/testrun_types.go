// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// TestCase is the metadata of the test case a test executes.
type TestCase struct {
	ID string `json:"id"`
	// +optional
	Tracker string `json:"tracker,omitempty"`
	// +optional
	URL string `json:"url,omitempty"`
	// +optional
	Version string `json:"version,omitempty"`
}

// Execution describes how a single test shall be executed by the test runner.
type Execution struct {
	// Checkout lists the commands that check out the test sources.
	// +optional
	Checkout []string `json:"checkout,omitempty"`
	Command  string   `json:"command"`
	// +optional
	Environment map[string]string `json:"environment,omitempty"`
	// +optional
	Execute []string `json:"execute,omitempty"`
	// +optional
	Parameters map[string]string `json:"parameters,omitempty"`
	TestRunner string            `json:"testRunner"`
}

// Test is a single test recipe within a suite.
type Test struct {
	ID        string    `json:"id"`
	TestCase  TestCase  `json:"testCase"`
	Execution Execution `json:"execution"`
}

// Suite is a top-level test suite declared by a testrun. Each suite gets
// its own main test suite started event and its own set of environments.
type Suite struct {
	Name string `json:"name"`
	// +optional
	Priority int    `json:"priority,omitempty"`
	Tests    []Test `json:"tests"`
	// Dataset is provider input forwarded verbatim to the environment provider.
	// +optional
	Dataset *runtime.RawExtension `json:"dataset,omitempty"`
}

// TestRunSpec defines the desired state of TestRun.
type TestRunSpec struct {
	// ID is the testrun identifier, shared with the Eiffel protocol.
	ID string `json:"id"`
	// Artifact is the id of the artifact under test.
	// +optional
	Artifact string `json:"artifact,omitempty"`
	// Identity is the package-URL identity of the artifact under test.
	// +optional
	Identity string `json:"identity,omitempty"`
	// Cluster is the ETOS cluster this testrun executes in.
	// +optional
	Cluster string  `json:"cluster,omitempty"`
	Suites  []Suite `json:"suites"`
}

// TestRunStatus defines the observed state of TestRun.
type TestRunStatus struct {
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
	// Verdict is the final verdict of the testrun.
	// +optional
	Verdict string `json:"verdict,omitempty"`
	// +optional
	CompletionTime *metav1.Time `json:"completionTime,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=tr

// TestRun is the Schema for the testruns API.
type TestRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TestRunSpec   `json:"spec,omitempty"`
	Status TestRunStatus `json:"status,omitempty"`
}

func (t *TestRun) GetConditions() []metav1.Condition {
	return t.Status.Conditions
}

func (t *TestRun) SetConditions(conditions []metav1.Condition) {
	t.Status.Conditions = conditions
}

// +kubebuilder:object:root=true

// TestRunList contains a list of TestRun.
type TestRunList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TestRun `json:"items"`
}

func init() {
	SchemeBuilder.Register(&TestRun{}, &TestRunList{})
}
