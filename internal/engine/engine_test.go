// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/space-hub/internal/fuse"
	"github.com/pdiddy/space-hub/internal/predicate"
	"github.com/pdiddy/space-hub/internal/store"
	"github.com/pdiddy/space-hub/pkg/types"
)

// stubSource serves canned records and counts invocations.
type stubSource struct {
	name    string
	dataset types.Dataset
	records []types.Record
	err     error
	calls   atomic.Int64
}

func (s *stubSource) Name() string           { return s.name }
func (s *stubSource) Dataset() types.Dataset { return s.dataset }

func (s *stubSource) Fetch(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	s.calls.Add(1)
	return s.records, s.err
}

// memCache is a map-backed store.Cache without expiry.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	p, ok := c.entries[key]
	return p, ok, nil
}

func (c *memCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memCache) Close() error { return nil }

// panicCache triggers the pipeline's recovery path.
type panicCache struct{ memCache }

func (c *panicCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	panic("cache backend corrupted")
}

// memAnalytics records appended rows.
type memAnalytics struct {
	mu   sync.Mutex
	recs []types.AnalyticsRecord
}

func (a *memAnalytics) Append(ctx context.Context, rec types.AnalyticsRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recs = append(a.recs, rec)
	return nil
}

func testEngine(cache store.Cache, analytics store.Analytics, sources ...fuse.Source) *Engine {
	return New(types.HubConfig{}.Defaults(), sources, cache, analytics, zerolog.Nop())
}

func exoStub() *stubSource {
	return &stubSource{
		name:    "exoplanet_archive",
		dataset: types.DatasetExoplanets,
		records: []types.Record{
			{"pl_name": "Kepler-186 f", "pl_rade": 1.17, "disc_year": float64(2014), "sy_dist": 178.5, "pl_orbsmax": 0.432},
			{"pl_name": "TRAPPIST-1 e", "pl_rade": 0.92, "disc_year": float64(2017), "sy_dist": 12.43, "pl_orbsmax": 0.029},
		},
	}
}

func marsStub() *stubSource {
	return &stubSource{
		name:    "nasa_feeds",
		dataset: types.DatasetMars,
		records: []types.Record{{"id": float64(1), "earth_date": "2023-04-01"}},
	}
}

func issStub(overhead bool) *stubSource {
	return &stubSource{
		name:    "wheretheiss",
		dataset: types.DatasetISS,
		records: []types.Record{{"name": "iss", "latitude": 41.2, "longitude": -73.1, "is_overhead": overhead}},
	}
}

func TestSearchValidation(t *testing.T) {
	e := testEngine(nil, nil)
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown dataset", Request{Query: "x", Datasets: []types.Dataset{"asteroids"}}},
		{"unknown sort", Request{Query: "x", Sort: "best"}},
		{"negative limit", Request{Query: "x", Limit: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Search(context.Background(), tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Search error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestSearchEmptyQueryDegrades(t *testing.T) {
	e := testEngine(nil, nil, exoStub())
	resp, err := e.Search(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Intent.Category != types.IntentGeneralSearch {
		t.Errorf("Category = %q, want %q", resp.Intent.Category, types.IntentGeneralSearch)
	}
	if resp.Confidence != 0.25 {
		t.Errorf("Confidence = %f, want 0.25", resp.Confidence)
	}
}

func TestSearchEndToEnd(t *testing.T) {
	e := testEngine(nil, nil, exoStub(), marsStub(), issStub(false))
	resp, err := e.Search(context.Background(), Request{Query: "earth-sized planets discovered after 2015"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(resp.Datasets) != 3 {
		t.Fatalf("len(Datasets) = %d, want 3", len(resp.Datasets))
	}
	if resp.TotalResults != 4 {
		t.Errorf("TotalResults = %d, want 4", resp.TotalResults)
	}
	if resp.Confidence <= 0 || resp.Confidence > 1 {
		t.Errorf("Confidence = %f, want (0, 1]", resp.Confidence)
	}
	if resp.Meta.CacheHit {
		t.Error("Meta.CacheHit = true on a cold search")
	}
	if len(resp.Suggestions) == 0 || len(resp.Suggestions) > 5 {
		t.Errorf("len(Suggestions) = %d, want 1..5", len(resp.Suggestions))
	}

	exo := resp.Datasets[types.DatasetExoplanets]
	if exo.Count != 2 {
		t.Fatalf("exoplanets Count = %d, want 2", exo.Count)
	}
	for _, item := range exo.Items {
		if item.Score <= 0 {
			t.Errorf("item %v unscored", item.Record["pl_name"])
		}
		if item.Source != "exoplanet_archive" {
			t.Errorf("Source = %q, want exoplanet_archive", item.Source)
		}
	}
}

func TestSearchDatasetSelector(t *testing.T) {
	exo, mars := exoStub(), marsStub()
	e := testEngine(nil, nil, exo, mars)

	resp, err := e.Search(context.Background(), Request{
		Query:    "rover photos",
		Datasets: []types.Dataset{types.DatasetMars},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Datasets) != 1 {
		t.Fatalf("len(Datasets) = %d, want 1", len(resp.Datasets))
	}
	if _, ok := resp.Datasets[types.DatasetMars]; !ok {
		t.Error("mars result missing")
	}
	if exo.calls.Load() != 0 {
		t.Errorf("exoplanet source called %d times, want 0", exo.calls.Load())
	}
	if mars.calls.Load() != 1 {
		t.Errorf("mars source called %d times, want 1", mars.calls.Load())
	}
}

func TestSearchCacheHit(t *testing.T) {
	src := exoStub()
	cache := newMemCache()
	analytics := &memAnalytics{}
	e := testEngine(cache, analytics, src)

	req := Request{Query: "habitable planets", Datasets: []types.Dataset{types.DatasetExoplanets}}
	first, err := e.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("first Search: %v", err)
	}
	second, err := e.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("second Search: %v", err)
	}

	if first.Meta.CacheHit {
		t.Error("first search reported a cache hit")
	}
	if !second.Meta.CacheHit {
		t.Error("second search missed the cache")
	}
	if second.TotalResults != first.TotalResults {
		t.Errorf("cached TotalResults = %d, want %d", second.TotalResults, first.TotalResults)
	}
	if src.calls.Load() != 1 {
		t.Errorf("source called %d times, want 1", src.calls.Load())
	}

	analytics.mu.Lock()
	defer analytics.mu.Unlock()
	if len(analytics.recs) != 2 {
		t.Fatalf("analytics rows = %d, want 2", len(analytics.recs))
	}
	if analytics.recs[0].CacheHit || !analytics.recs[1].CacheHit {
		t.Errorf("analytics cache flags = %v, %v; want false, true",
			analytics.recs[0].CacheHit, analytics.recs[1].CacheHit)
	}
}

func TestSearchNoCacheBypasses(t *testing.T) {
	src := exoStub()
	e := testEngine(newMemCache(), nil, src)

	req := Request{Query: "habitable planets", NoCache: true}
	for i := 0; i < 2; i++ {
		if _, err := e.Search(context.Background(), req); err != nil {
			t.Fatalf("Search %d: %v", i, err)
		}
	}
	if src.calls.Load() != 2 {
		t.Errorf("source called %d times, want 2", src.calls.Load())
	}
}

func TestSearchCacheReadErrorDegradesToMiss(t *testing.T) {
	src := exoStub()
	cache := newMemCache()
	cache.getErr = errors.New("disk on fire")
	e := testEngine(cache, nil, src)

	resp, err := e.Search(context.Background(), Request{Query: "planets"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Meta.CacheHit {
		t.Error("cache error reported as a hit")
	}
}

func TestSearchPartialFailure(t *testing.T) {
	bad := &stubSource{name: "nasa_feeds", dataset: types.DatasetMars, err: errors.New("HTTP 503")}
	e := testEngine(nil, nil, exoStub(), bad)

	resp, err := e.Search(context.Background(), Request{Query: "planets and rovers"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	mars := resp.Datasets[types.DatasetMars]
	if !mars.Unavailable || mars.Error == "" {
		t.Errorf("mars result = %+v, want unavailable with error text", mars)
	}
	exo := resp.Datasets[types.DatasetExoplanets]
	if exo.Unavailable || exo.Count != 2 {
		t.Errorf("exoplanet result = %+v, want 2 items despite mars failure", exo)
	}
}

func TestSearchPanicRecovered(t *testing.T) {
	cfg := types.HubConfig{}.Defaults()
	e := New(cfg, []fuse.Source{exoStub()}, &panicCache{}, nil, zerolog.Nop())

	_, err := e.Search(context.Background(), Request{Query: "planets"})
	if err == nil {
		t.Fatal("Search returned nil error after a pipeline panic")
	}
}

func TestSearchLimit(t *testing.T) {
	e := testEngine(nil, nil, exoStub())
	resp, err := e.Search(context.Background(), Request{Query: "planets", Limit: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	exo := resp.Datasets[types.DatasetExoplanets]
	if exo.Count != 1 || len(exo.Items) != 1 {
		t.Errorf("Count = %d, len(Items) = %d; want 1, 1", exo.Count, len(exo.Items))
	}
}

func TestSearchCorrelations(t *testing.T) {
	e := testEngine(nil, nil, exoStub(), marsStub(), issStub(true))
	resp, err := e.Search(context.Background(), Request{Query: "planets", Correlations: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Correlations) == 0 {
		t.Fatal("no correlations produced")
	}
	found := false
	for _, c := range resp.Correlations {
		if c == "The ISS is currently overhead of the requested observer" {
			found = true
		}
	}
	if !found {
		t.Errorf("Correlations = %v, missing overhead observation", resp.Correlations)
	}
}

func TestResponseFileRoundTrip(t *testing.T) {
	e := testEngine(nil, nil, exoStub())
	req := Request{Query: "planets"}
	resp, err := e.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	path := filepath.Join(t.TempDir(), "search.yaml")
	if err := WriteResponseFile(path, req, resp); err != nil {
		t.Fatalf("WriteResponseFile: %v", err)
	}
	rf, err := ReadResponseFile(path)
	if err != nil {
		t.Fatalf("ReadResponseFile: %v", err)
	}
	if rf.Request.Query != "planets" {
		t.Errorf("Request.Query = %q, want planets", rf.Request.Query)
	}
	if rf.Response.TotalResults != resp.TotalResults {
		t.Errorf("TotalResults = %d, want %d", rf.Response.TotalResults, resp.TotalResults)
	}
}
