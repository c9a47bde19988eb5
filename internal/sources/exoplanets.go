// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/space-hub/internal/predicate"
	"github.com/pdiddy/space-hub/pkg/types"
)

// exoplanetTAPBase is the NASA Exoplanet Archive synchronous TAP
// endpoint. Declared as a var so tests can substitute an httptest
// server.
var exoplanetTAPBase = "https://exoplanetarchive.ipac.caltech.edu/TAP/sync"

// exoplanetColumns are the ps-table columns the hub consumes. Keeping
// the select list fixed keeps the record shape stable for the scorer.
const exoplanetColumns = "pl_name,hostname,pl_rade,pl_bmasse,disc_year,discoverymethod,st_teff,sy_dist,pl_orbsmax"

// ExoplanetSource queries the NASA Exoplanet Archive over TAP (R2).
type ExoplanetSource struct {
	Client *http.Client
	Cfg    types.SourcesConfig

	// MaxRows caps the TAP select; zero means the default of 50.
	MaxRows int
}

// Name returns the source identifier.
func (s *ExoplanetSource) Name() string { return "exoplanet_archive" }

// Dataset returns the dataset this adapter serves.
func (s *ExoplanetSource) Dataset() types.Dataset { return types.DatasetExoplanets }

// Fetch runs the predicate as an ADQL query against the ps table.
func (s *ExoplanetSource) Fetch(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	params := url.Values{
		"query":  {s.adql(pred)},
		"format": {"json"},
	}

	var rows []types.Record
	if err := getJSON(ctx, s.Client, exoplanetTAPBase+"?"+params.Encode(), s.Cfg.UserAgent, &rows); err != nil {
		return nil, fmt.Errorf("exoplanet archive: %w", err)
	}
	return rows, nil
}

// adql renders the predicate as an ADQL select. The ps table carries
// one row per publication, so default_flag=1 restricts it to each
// planet's default parameter set.
func (s *ExoplanetSource) adql(pred predicate.Predicate) string {
	top := s.MaxRows
	if top <= 0 {
		top = 50
	}
	if top > 200 {
		top = 200
	}

	where := "default_flag=1"
	if w := pred.Where(); w != "" {
		where += " and " + w
	}
	return fmt.Sprintf("select top %d %s from ps where %s order by disc_year desc", top, exoplanetColumns, where)
}
