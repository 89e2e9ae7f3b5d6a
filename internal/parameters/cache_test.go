// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package parameters

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetSet(t *testing.T) {
	cache := NewCache()

	_, ok := cache.Get("testrun_id")
	assert.False(t, ok)

	cache.Set("testrun_id", "abc")
	value, ok := cache.Get("testrun_id")
	require.True(t, ok)
	assert.Equal(t, "abc", value)
}

func TestResolveOnceSingleResolution(t *testing.T) {
	cache := NewCache()

	var resolutions int
	resolve := func() (any, error) {
		resolutions++
		return "resolved", nil
	}

	const callers = 16
	results := make([]any, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.ResolveOnce("test_suite", resolve)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, resolutions, "resolution ran more than once")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "resolved", results[i])
	}
}

func TestResolveOnceFailureAllowsRetry(t *testing.T) {
	cache := NewCache()

	_, err := cache.ResolveOnce("test_suite", func() (any, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	_, ok := cache.Get("test_suite")
	assert.False(t, ok)

	value, err := cache.ResolveOnce("test_suite", func() (any, error) {
		return "second attempt", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second attempt", value)
}

func TestStatusRegister(t *testing.T) {
	cache := NewCache()
	assert.Equal(t, Status{State: StateNotStarted}, cache.GetStatus())

	cache.SetStatus(StateFailed, "environment provider failed")
	assert.Equal(t, Status{State: StateFailed, Error: "environment provider failed"}, cache.GetStatus())
}

// TestStatusNeverPartiallyApplied hammers the status register from multiple
// writers and checks that readers only ever observe complete state/error
// pairs, never an interleaving of two writes.
func TestStatusNeverPartiallyApplied(t *testing.T) {
	cache := NewCache()

	valid := map[Status]bool{
		{State: StateNotStarted}:                 true,
		{State: StateRunning}:                    true,
		{State: StateFailed, Error: "the error"}: true,
		{State: StateDone}:                       true,
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				cache.SetStatus(StateRunning, "")
				cache.SetStatus(StateFailed, "the error")
				cache.SetStatus(StateDone, "")
			}
		}()
	}

	for i := 0; i < 10000; i++ {
		status := cache.GetStatus()
		require.True(t, valid[status], "observed partially applied status: %+v", status)
	}
	close(done)
	wg.Wait()
}
