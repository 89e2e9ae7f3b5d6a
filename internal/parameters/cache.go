// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package parameters

import (
	"sync"
)

// Cache is the guarded parameter store shared by all resolutions in a
// suite runner process. It is a plain mapping; first-write-wins is the
// callers' convention, not enforced here. The same mutex also guards the
// environment provider status register, keeping status reads free of
// partially applied updates.
type Cache struct {
	mu     sync.Mutex
	values map[string]any
	status Status
}

// NewCache creates an empty cache with the status register at NOT_STARTED.
func NewCache() *Cache {
	return &Cache{
		values: make(map[string]any),
		status: Status{State: StateNotStarted},
	}
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	return value, ok
}

// Set stores a value under key.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// ResolveOnce returns the cached value for key, or runs resolve and caches
// its result while holding the cache lock. Concurrent callers for an
// unpopulated key block until the first resolution completes and then all
// observe the same value. Nothing is cached on failure, so a later call
// may retry.
func (c *Cache) ResolveOnce(key string, resolve func() (any, error)) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value, ok := c.values[key]; ok {
		return value, nil
	}
	value, err := resolve()
	if err != nil {
		return nil, err
	}
	c.values[key] = value
	return value, nil
}

// SetStatus updates the environment provider status register.
func (c *Cache) SetStatus(state State, errorMessage string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = Status{State: state, Error: errorMessage}
}

// GetStatus returns a copy of the environment provider status register.
func (c *Cache) GetStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
