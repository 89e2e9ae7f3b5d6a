// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// EnvironmentSpec defines the desired state of Environment. An Environment
// is a single executable sub suite, provisioned by the environment provider
// and correlated to its main test suite through SuiteID.
type EnvironmentSpec struct {
	Name string `json:"name"`
	// SuiteID is the id of the main test suite this environment belongs to.
	SuiteID string `json:"suiteId"`
	// SubSuiteID is the id of the sub suite executing in this environment.
	// +optional
	SubSuiteID string `json:"subSuiteId,omitempty"`
	// +optional
	TestRunner string `json:"testRunner,omitempty"`
	// Artifact is the id of the artifact under test.
	// +optional
	Artifact string `json:"artifact,omitempty"`
	// +optional
	Priority int `json:"priority,omitempty"`
	// IUT is the item under test description from the IUT provider.
	// +optional
	IUT *runtime.RawExtension `json:"iut,omitempty"`
	// Executor is the execution space description from the execution space provider.
	// +optional
	Executor *runtime.RawExtension `json:"executor,omitempty"`
	// LogArea is the log area description from the log area provider.
	// +optional
	LogArea *runtime.RawExtension `json:"logArea,omitempty"`
	// +optional
	Recipes []Test `json:"recipes,omitempty"`
}

// EnvironmentStatus defines the observed state of Environment.
type EnvironmentStatus struct {
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=env;envs

// Environment is the Schema for the environments API.
type Environment struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EnvironmentSpec   `json:"spec,omitempty"`
	Status EnvironmentStatus `json:"status,omitempty"`
}

func (e *Environment) GetConditions() []metav1.Condition {
	return e.Status.Conditions
}

func (e *Environment) SetConditions(conditions []metav1.Condition) {
	e.Status.Conditions = conditions
}

// +kubebuilder:object:root=true

// EnvironmentList contains a list of Environment.
type EnvironmentList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Environment `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Environment{}, &EnvironmentList{})
}
