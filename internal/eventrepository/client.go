// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventrepository implements the Eiffel event repository lookups
// the suite runner needs, using the GraphQL API of the event repository.
package eventrepository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/andmat900/etos-suite-runner/internal/eiffel"
)

// ErrNotFound is returned when the event repository has no event matching
// the query.
var ErrNotFound = errors.New("event not found in the event repository")

const artifactCreatedQuery = `{
  artifactCreated(search: "{'meta.id': '%s'}", last: 1) {
    edges {
      node {
        data {
          identity
        }
        meta {
          id
          type
          time
        }
      }
    }
  }
}`

// Client queries an Eiffel event repository over its GraphQL API.
type Client struct {
	url    string
	client eiffel.Doer
	logger *slog.Logger
}

// New creates an event repository client for the given GraphQL endpoint.
func New(url string, httpClient eiffel.Doer, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		client: httpClient,
		logger: logger,
	}
}

// ArtifactByID returns the artifact created event with the given id.
func (c *Client) ArtifactByID(ctx context.Context, id string) (*eiffel.ArtifactCreated, error) {
	c.logger.Debug("Requesting artifact created event", "artifact", id)
	return c.artifactCreated(ctx, id)
}

// ArtifactByTERCC returns the artifact created event that caused the given
// TERCC, found through the TERCC's CAUSE link.
func (c *Client) ArtifactByTERCC(ctx context.Context, tercc *eiffel.TERCC) (*eiffel.ArtifactCreated, error) {
	target, ok := tercc.CauseLink()
	if !ok {
		return nil, fmt.Errorf("TERCC %s has no CAUSE link to an artifact", tercc.Meta.ID)
	}
	c.logger.Debug("Requesting artifact created event", "tercc", tercc.Meta.ID, "artifact", target)
	return c.artifactCreated(ctx, target)
}

func (c *Client) artifactCreated(ctx context.Context, id string) (*eiffel.ArtifactCreated, error) {
	var response struct {
		Data struct {
			ArtifactCreated struct {
				Edges []struct {
					Node eiffel.ArtifactCreated `json:"node"`
				} `json:"edges"`
			} `json:"artifactCreated"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := c.query(ctx, fmt.Sprintf(artifactCreatedQuery, id), &response); err != nil {
		return nil, err
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("event repository query failed: %s", response.Errors[0].Message)
	}
	edges := response.Data.ArtifactCreated.Edges
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: artifact created with id %s", ErrNotFound, id)
	}
	artifact := edges[0].Node
	return &artifact, nil
}

// query executes a GraphQL query and decodes the response into out.
func (c *Client) query(ctx context.Context, query string, out any) error {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", c.url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query event repository at %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("event repository at %s returned status %d", c.url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode event repository response: %w", err)
	}
	return nil
}
