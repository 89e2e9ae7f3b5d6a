// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

// Package eiffel contains the Eiffel event projections the suite runner
// reads and the logic for extracting test suites from a TERCC event.
package eiffel

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Link types used by the events this package reads.
const (
	LinkTypeCause = "CAUSE"
)

// Meta is the meta section shared by all Eiffel events.
type Meta struct {
	ID      string `json:"id"`
	Type    string `json:"type,omitempty"`
	Version string `json:"version,omitempty"`
	Time    int64  `json:"time,omitempty"`
}

// Link is a reference from one Eiffel event to another.
type Link struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

// TERCC is the Eiffel test execution recipe collection created event that
// starts a testrun in the legacy event-driven protocol.
type TERCC struct {
	Meta  Meta      `json:"meta"`
	Data  TERCCData `json:"data"`
	Links []Link    `json:"links,omitempty"`
}

// TERCCData carries the test suite batches, either inline or by reference.
// Exactly one of Batches and BatchesURI shall be set. BatchesURI is a
// pointer so that a key set to an empty string still counts as set when
// checking that exactly one source was declared.
type TERCCData struct {
	Batches    []Batch `json:"batches,omitempty"`
	BatchesURI *string `json:"batchesUri,omitempty"`
}

// ParseTERCC parses a TERCC event from its JSON representation.
func ParseTERCC(data []byte) (*TERCC, error) {
	var tercc TERCC
	if err := json.Unmarshal(data, &tercc); err != nil {
		return nil, fmt.Errorf("failed to parse TERCC event: %w", err)
	}
	return &tercc, nil
}

// Empty reports whether this event carries no identity, i.e. was parsed
// from an absent or empty payload.
func (t *TERCC) Empty() bool {
	return t == nil || t.Meta.ID == ""
}

// CauseLink returns the target of the first CAUSE link, which for a TERCC
// is the artifact that the testrun was triggered for.
func (t *TERCC) CauseLink() (string, bool) {
	for _, link := range t.Links {
		if link.Type == LinkTypeCause {
			return link.Target, true
		}
	}
	return "", false
}

// ArtifactCreated is the Eiffel event announcing the artifact under test.
type ArtifactCreated struct {
	Meta  Meta         `json:"meta"`
	Data  ArtifactData `json:"data"`
	Links []Link       `json:"links,omitempty"`
}

// ArtifactData is the data section of an artifact created event.
type ArtifactData struct {
	// Identity is the package-URL identity of the artifact.
	Identity string `json:"identity"`
}

// Doer is the single-method HTTP client this package needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
