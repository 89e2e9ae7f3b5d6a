// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// EnvironmentRequestSpec defines the desired state of EnvironmentRequest.
// One request is created per main test suite and its ID correlates the
// environments created for that suite.
type EnvironmentRequestSpec struct {
	// ID is the main suite id that environments created for this request
	// shall be correlated with.
	ID string `json:"id"`
	// +optional
	Name string `json:"name,omitempty"`
	// Identifier is the id of the testrun this request belongs to.
	Identifier string `json:"identifier"`
	// Artifact is the id of the artifact under test.
	// +optional
	Artifact string `json:"artifact,omitempty"`
	// Identity is the package-URL identity of the artifact under test.
	// +optional
	Identity string `json:"identity,omitempty"`
	// MinimumAmount is the minimum number of environments to provision.
	// +optional
	MinimumAmount int `json:"minimumAmount,omitempty"`
	// MaximumAmount is the maximum number of environments to provision.
	// +optional
	MaximumAmount int `json:"maximumAmount,omitempty"`
	// Image is the test runner image to execute in the environments.
	// +optional
	Image string `json:"image,omitempty"`
	// +optional
	ImagePullPolicy string `json:"imagePullPolicy,omitempty"`
	// Dataset is provider input forwarded verbatim to the environment provider.
	// +optional
	Dataset *runtime.RawExtension `json:"dataset,omitempty"`
}

// EnvironmentRequestStatus defines the observed state of EnvironmentRequest.
type EnvironmentRequestStatus struct {
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
	// +optional
	CompletionTime *metav1.Time `json:"completionTime,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=envreq

// EnvironmentRequest is the Schema for the environmentrequests API.
type EnvironmentRequest struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EnvironmentRequestSpec   `json:"spec,omitempty"`
	Status EnvironmentRequestStatus `json:"status,omitempty"`
}

func (r *EnvironmentRequest) GetConditions() []metav1.Condition {
	return r.Status.Conditions
}

func (r *EnvironmentRequest) SetConditions(conditions []metav1.Condition) {
	r.Status.Conditions = conditions
}

// +kubebuilder:object:root=true

// EnvironmentRequestList contains a list of EnvironmentRequest.
type EnvironmentRequestList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []EnvironmentRequest `json:"items"`
}

func init() {
	SchemeBuilder.Register(&EnvironmentRequest{}, &EnvironmentRequestList{})
}
