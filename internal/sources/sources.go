// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources holds the adapters for the federated data sources.
// Implements: prd007-sources (R1-R5);
//
//	docs/ARCHITECTURE § Source Adapters.
//
// Each adapter implements fuse.Source: it receives the predicate built
// for its dataset, translates the fragments into the upstream API's own
// query language, and returns raw records. Adapters hold no state beyond
// an HTTP client and configuration; retries and timeouts are handled by
// httputil and the fusion layer.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/space-hub/internal/fuse"
	"github.com/pdiddy/space-hub/internal/httputil"
	"github.com/pdiddy/space-hub/pkg/types"
)

// sourceMaxRetries bounds 429 retries per upstream call. The per-source
// timeout usually expires first, so keep this low.
const sourceMaxRetries = 2

// timeNow is a hook so tests can pin date-window parameters.
var timeNow = func() time.Time { return time.Now() }

// All constructs the full adapter set sharing one HTTP client.
func All(cfg types.SourcesConfig) []fuse.Source {
	client := &http.Client{Timeout: cfg.Timeout}
	return []fuse.Source{
		&ExoplanetSource{Client: client, Cfg: cfg},
		&NASAFeedSource{Client: client, Cfg: cfg},
		&ISSSource{Client: client, Cfg: cfg},
	}
}

// getJSON performs a GET with the shared retry policy and decodes the
// JSON response into out.
func getJSON(ctx context.Context, client *http.Client, reqURL, userAgent string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, sourceMaxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
