// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package parameters

import (
	"fmt"

	"github.com/andmat900/etos-suite-runner/internal/eiffel"
)

// MissingIdentifierError is returned when an identifier could not be
// resolved from the cache, the environment or an Eiffel event. It names
// both input channels so that operators can tell which one was expected.
type MissingIdentifierError struct {
	Key    string
	EnvVar string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf(
		"%s is not set, neither in an Eiffel event nor the %s environment variable", e.Key, e.EnvVar,
	)
}

type idSourceKind int

const (
	idSourceAbsent idSourceKind = iota
	idSourceEvent
)

// IDSource is the event tier input of an identifier resolution. It makes
// the presence of an event explicit instead of inferring it from the shape
// of a payload.
type IDSource struct {
	kind idSourceKind
	id   string
}

// NoID marks the event tier as absent.
func NoID() IDSource {
	return IDSource{kind: idSourceAbsent}
}

// EventID takes the embedded identifier of an Eiffel event. An event
// without an id, such as one parsed from an empty payload, counts as
// absent.
func EventID(meta eiffel.Meta) IDSource {
	if meta.ID == "" {
		return NoID()
	}
	return IDSource{kind: idSourceEvent, id: meta.ID}
}

// ID returns the identifier carried by this source, if any.
func (s IDSource) ID() (string, bool) {
	if s.kind == idSourceAbsent {
		return "", false
	}
	return s.id, true
}

// IDResolver resolves identifiers with a three tier precedence: a cached
// value wins, then the environment variable (set including empty), then
// the identifier embedded in an Eiffel event. The result is cached
// permanently under key; nothing is cached on failure so a retry with a
// now-available source can still succeed.
type IDResolver struct {
	cache     *Cache
	lookupEnv func(string) (string, bool)
}

// NewIDResolver creates a resolver writing to the given cache.
func NewIDResolver(cache *Cache, lookupEnv func(string) (string, bool)) *IDResolver {
	return &IDResolver{cache: cache, lookupEnv: lookupEnv}
}

// Resolve returns the identifier for key.
func (r *IDResolver) Resolve(key, envVar string, src IDSource) (string, error) {
	if value, ok := r.cache.Get(key); ok {
		return value.(string), nil
	}
	if value, ok := r.lookupEnv(envVar); ok {
		r.cache.Set(key, value)
		return value, nil
	}
	if id, ok := src.ID(); ok {
		r.cache.Set(key, id)
		return id, nil
	}
	return "", &MissingIdentifierError{Key: key, EnvVar: envVar}
}
