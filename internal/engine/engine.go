// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine assembles the query pipeline.
// Implements: prd001-interpret R7, prd003-fusion R5, prd006-cache R2;
//
//	docs/ARCHITECTURE § Engine.
//
// A search runs interpret, predicate building, fused fetching, scoring,
// ranking, and suggestions in sequence. The cache short-circuits the
// whole pipeline; analytics and cache writes are best-effort and never
// fail a search.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/space-hub/internal/fuse"
	"github.com/pdiddy/space-hub/internal/interpret"
	"github.com/pdiddy/space-hub/internal/predicate"
	"github.com/pdiddy/space-hub/internal/rank"
	"github.com/pdiddy/space-hub/internal/store"
	"github.com/pdiddy/space-hub/internal/suggest"
	"github.com/pdiddy/space-hub/pkg/types"
)

// Request is one search invocation.
type Request struct {
	// Query is the natural-language query text.
	Query string

	// Datasets restricts the search; empty means all datasets.
	Datasets []types.Dataset

	// Limit caps the ranked items kept per dataset; zero means the
	// configured MaxResultsPerSource.
	Limit int

	// Sort selects the ranking strategy; empty means relevance.
	Sort types.SortMode

	// Correlations enables cross-dataset observations.
	Correlations bool

	// NoCache bypasses the cache for both read and write.
	NoCache bool
}

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Engine runs searches against a fixed adapter set.
type Engine struct {
	cfg       types.HubConfig
	sources   []fuse.Source
	cache     store.Cache
	analytics store.Analytics
	log       zerolog.Logger

	// now is a hook so tests can pin timestamps and latency.
	now func() time.Time
}

// New builds an engine. cache and analytics may be nil to disable the
// corresponding stage.
func New(cfg types.HubConfig, sources []fuse.Source, cache store.Cache, analytics store.Analytics, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		sources:   sources,
		cache:     cache,
		analytics: analytics,
		log:       log,
		now:       time.Now,
	}
}

// validate normalizes the request in place and rejects malformed
// parameters. Query text is never rejected here: empty or unparseable
// text degrades to a low-confidence general intent downstream.
func validate(req *Request) error {
	for _, d := range req.Datasets {
		if !types.ValidDataset(d) {
			return &ValidationError{Field: "datasets", Msg: fmt.Sprintf("unknown dataset %q", d)}
		}
	}
	if len(req.Datasets) == 0 {
		req.Datasets = append([]types.Dataset(nil), types.Datasets...)
	}
	if req.Sort == "" {
		req.Sort = types.SortRelevance
	}
	if !types.ValidSortMode(req.Sort) {
		return &ValidationError{Field: "sort", Msg: fmt.Sprintf("unknown sort mode %q", req.Sort)}
	}
	if req.Limit < 0 {
		return &ValidationError{Field: "limit", Msg: "must not be negative"}
	}
	return nil
}

// Search runs the full pipeline for one request. A panic anywhere in
// the pipeline is converted to an error and the partial response is
// discarded, never cached.
func (e *Engine) Search(ctx context.Context, req Request) (resp types.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = types.Response{}
			err = fmt.Errorf("search failed: %v", r)
			e.log.Error().Str("query", req.Query).Interface("panic", r).Msg("pipeline panic")
		}
	}()

	if err := validate(&req); err != nil {
		return types.Response{}, err
	}

	start := e.now()
	key := store.Key(req.Query, req.Datasets, req.Sort)

	if cached, ok := e.cacheLookup(ctx, req, key); ok {
		cached.Meta.CacheHit = true
		cached.Meta.LatencyMS = e.now().Sub(start).Milliseconds()
		cached.Meta.Timestamp = start
		e.record(ctx, req, key, cached, nil)
		return cached, nil
	}

	intent := interpret.Interpret(req.Query)

	preds := make(map[types.Dataset]predicate.Predicate, len(req.Datasets))
	for _, d := range req.Datasets {
		preds[d] = predicate.Build(intent, d)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.Search.RequestTimeout)
	defer cancel()
	fetched := fuse.Fetch(fetchCtx, e.selectSources(req.Datasets), preds, e.cfg.Search, e.log)

	scorer := rank.NewScorerAt(start)
	limit := req.Limit
	if limit == 0 || limit > e.cfg.Search.MaxResultsPerSource {
		limit = e.cfg.Search.MaxResultsPerSource
	}

	resp = types.Response{
		Query:      req.Query,
		Intent:     intent,
		Datasets:   make(map[types.Dataset]types.DatasetResult, len(req.Datasets)),
		Confidence: intent.Confidence,
		Meta:       types.ResponseMeta{Timestamp: start},
	}

	for _, d := range req.Datasets {
		sr, ok := fetched[d]
		if !ok {
			continue
		}
		dr := types.DatasetResult{
			Source:      sr.Source,
			Predicate:   preds[d].Description(),
			Unavailable: sr.Unavailable,
			Error:       sr.Err,
		}
		if !sr.Unavailable {
			items := sr.Items
			scorer.ScoreAll(intent, items)
			if req.Sort == types.SortRelevance {
				rank.Rank(items)
			} else {
				rank.Sort(items, req.Sort)
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}
			dr.Items = items
			dr.Count = len(items)
			resp.TotalResults += len(items)
		}
		resp.Datasets[d] = dr
	}

	resp.Suggestions = suggest.Suggest(intent)
	if req.Correlations {
		resp.Correlations = correlate(intent, resp.Datasets)
	}
	resp.Meta.LatencyMS = e.now().Sub(start).Milliseconds()

	e.cacheWrite(ctx, req, key, resp)
	e.record(ctx, req, key, resp, nil)
	return resp, nil
}

// selectSources filters the adapter set down to the requested datasets.
func (e *Engine) selectSources(datasets []types.Dataset) []fuse.Source {
	want := make(map[types.Dataset]bool, len(datasets))
	for _, d := range datasets {
		want[d] = true
	}
	var out []fuse.Source
	for _, src := range e.sources {
		if want[src.Dataset()] {
			out = append(out, src)
		}
	}
	return out
}

// cacheLookup returns a previously cached response. Errors degrade to a
// miss.
func (e *Engine) cacheLookup(ctx context.Context, req Request, key string) (types.Response, bool) {
	if e.cache == nil || req.NoCache {
		return types.Response{}, false
	}
	payload, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.Warn().Err(err).Msg("cache read failed")
		return types.Response{}, false
	}
	if !ok {
		return types.Response{}, false
	}
	var resp types.Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		e.log.Warn().Err(err).Msg("cached payload corrupt")
		return types.Response{}, false
	}
	return resp, true
}

// cacheWrite stores the response; failures are logged and swallowed.
func (e *Engine) cacheWrite(ctx context.Context, req Request, key string, resp types.Response) {
	if e.cache == nil || req.NoCache {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		e.log.Warn().Err(err).Msg("marshaling response for cache")
		return
	}
	if err := e.cache.Put(ctx, key, payload, e.cfg.Cache.TTL); err != nil {
		e.log.Warn().Err(err).Msg("cache write failed")
	}
}

// record appends one analytics row; failures are logged and swallowed.
func (e *Engine) record(ctx context.Context, req Request, key string, resp types.Response, searchErr error) {
	if e.analytics == nil {
		return
	}
	rec := types.AnalyticsRecord{
		QueryHash:   key,
		Query:       req.Query,
		Intent:      resp.Intent.Category,
		Complexity:  resp.Intent.Complexity,
		Datasets:    req.Datasets,
		ResultCount: resp.TotalResults,
		LatencyMS:   resp.Meta.LatencyMS,
		Timestamp:   resp.Meta.Timestamp,
		CacheHit:    resp.Meta.CacheHit,
	}
	if searchErr != nil {
		rec.ErrorMessage = searchErr.Error()
	}
	if err := e.analytics.Append(ctx, rec); err != nil {
		e.log.Warn().Err(err).Msg("analytics append failed")
	}
}
