// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/space-hub/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CacheConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKeyNormalization(t *testing.T) {
	ds := []types.Dataset{types.DatasetExoplanets, types.DatasetMars}

	a := Key("Habitable  Planets", ds, types.SortRelevance)
	b := Key("habitable planets", ds, types.SortRelevance)
	assert.Equal(t, a, b, "case and whitespace must not change the key")

	reversed := Key("habitable planets", []types.Dataset{types.DatasetMars, types.DatasetExoplanets}, types.SortRelevance)
	assert.Equal(t, a, reversed, "dataset order must not change the key")

	otherSort := Key("habitable planets", ds, types.SortDate)
	assert.NotEqual(t, a, otherSort, "sort mode is part of the key")

	otherDatasets := Key("habitable planets", ds[:1], types.SortRelevance)
	assert.NotEqual(t, a, otherDatasets, "dataset selection is part of the key")
}

func TestCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	payload := []byte(`{"total_results": 7}`)
	require.NoError(t, s.Put(ctx, "k1", payload, time.Minute))

	got, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheExpiryIsMiss(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }
	require.NoError(t, s.Put(ctx, "k1", []byte("x"), 5*time.Minute))

	s.now = func() time.Time { return base.Add(4 * time.Minute) }
	_, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok, "entry before expiry must hit")

	s.now = func() time.Time { return base.Add(6 * time.Minute) }
	_, ok, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok, "entry past expiry must miss")
}

func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k1", []byte("old"), time.Minute))
	require.NoError(t, s.Put(ctx, "k1", []byte("new"), time.Minute))

	got, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got, "put is last-write-wins")
}

func TestAnalyticsAppendAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(ctx, types.AnalyticsRecord{
			QueryHash:   "h",
			Query:       "habitable planets",
			Intent:      types.IntentHabitability,
			Complexity:  types.ComplexitySimple,
			Datasets:    []types.Dataset{types.DatasetExoplanets},
			ResultCount: i,
			LatencyMS:   12,
			Timestamp:   time.Now(),
		}))
	}

	recent, err := s.RecentQueries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 2, recent[0].ResultCount, "newest row first")
	assert.Equal(t, types.IntentHabitability, recent[0].Intent)
	assert.Equal(t, []types.Dataset{types.DatasetExoplanets}, recent[0].Datasets)
}

func TestStatsAndPurge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.Put(ctx, "b", []byte("2"), time.Minute))

	st, err := s.ReadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CacheEntries)

	n, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	st, err = s.ReadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.CacheEntries)
}
