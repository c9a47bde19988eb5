// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fuse dispatches predicates to the source adapters and merges
// their results.
// Implements: prd003-fusion (R1-R4);
//
//	docs/ARCHITECTURE § Result Fusion.
//
// Sources are queried concurrently, each under its own timeout. A source
// that errors or times out is marked unavailable and excluded; it never
// aborts the others.
package fuse

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/space-hub/internal/predicate"
	"github.com/pdiddy/space-hub/pkg/types"
)

// Source is one federated data source. Each adapter (exoplanet archive,
// ISS tracker, NASA feeds) implements this interface per the Strategy
// pattern (R1.2).
type Source interface {
	Name() string
	Dataset() types.Dataset
	Fetch(ctx context.Context, pred predicate.Predicate) ([]types.Record, error)
}

// SourceResult is the fan-in envelope for one source: wrapped items on
// success, an unavailable marker with the error text otherwise.
type SourceResult struct {
	Source      string
	Dataset     types.Dataset
	Items       []types.ResultItem
	Unavailable bool
	Err         string
}

// Fetch fans the predicates out to the selected sources concurrently and
// joins the results (R2). Every source call runs under an independent
// per-source timeout; the passed context carries the overall request
// deadline. Cancelling ctx abandons pending sources without failing the
// ones that already answered.
func Fetch(ctx context.Context, sources []Source, preds map[types.Dataset]predicate.Predicate, cfg types.SearchConfig, log zerolog.Logger) map[types.Dataset]SourceResult {
	ch := make(chan SourceResult, len(sources))
	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			ch <- fetchOne(ctx, src, preds[src.Dataset()], cfg)
		}(src)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	out := make(map[types.Dataset]SourceResult, len(sources))
	for sr := range ch {
		if sr.Unavailable {
			log.Warn().Str("source", sr.Source).Str("error", sr.Err).Msg("source unavailable")
		} else {
			log.Debug().Str("source", sr.Source).Int("records", len(sr.Items)).Msg("source answered")
		}
		out[sr.Dataset] = sr
	}
	return out
}

// fetchOne queries a single source under its own timeout and wraps the
// raw records with provenance tags in unscored state (R3).
func fetchOne(ctx context.Context, src Source, pred predicate.Predicate, cfg types.SearchConfig) SourceResult {
	sr := SourceResult{Source: src.Name(), Dataset: src.Dataset()}

	srcCtx, cancel := context.WithTimeout(ctx, cfg.SourceTimeout)
	defer cancel()

	records, err := src.Fetch(srcCtx, pred)
	if err != nil {
		sr.Unavailable = true
		sr.Err = err.Error()
		return sr
	}

	if cfg.MaxResultsPerSource > 0 && len(records) > cfg.MaxResultsPerSource {
		records = records[:cfg.MaxResultsPerSource]
	}

	for _, rec := range records {
		sr.Items = append(sr.Items, types.ResultItem{
			Source:  src.Name(),
			Dataset: src.Dataset(),
			Record:  rec,
		})
	}
	return sr
}
