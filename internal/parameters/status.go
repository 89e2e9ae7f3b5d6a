// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package parameters

// State is the environment provider state of a testrun.
type State string

// States reported by the environment provider.
const (
	StateNotStarted State = "NOT_STARTED"
	StateRunning    State = "RUNNING"
	StateFailed     State = "FAILED"
	StateDone       State = "DONE"
)

// Status is the environment provider status of a testrun. Error is empty
// unless State is FAILED.
type Status struct {
	State State
	Error string
}
