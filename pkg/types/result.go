// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Dataset identifies one of the federated data sources.
type Dataset string

const (
	DatasetExoplanets Dataset = "exoplanets"
	DatasetMars       Dataset = "mars"
	DatasetISS        Dataset = "iss"
)

// Datasets lists all datasets in declaration order.
var Datasets = []Dataset{DatasetExoplanets, DatasetMars, DatasetISS}

// ValidDataset reports whether d names a known dataset.
func ValidDataset(d Dataset) bool {
	for _, known := range Datasets {
		if d == known {
			return true
		}
	}
	return false
}

// SortMode selects the ranking strategy for the response.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortDate      SortMode = "date"
	SortDistance  SortMode = "distance"
	SortSize      SortMode = "size"
)

// SortModes lists all sort strategies in declaration order.
var SortModes = []SortMode{SortRelevance, SortDate, SortDistance, SortSize}

// ValidSortMode reports whether m names a known sort strategy.
func ValidSortMode(m SortMode) bool {
	for _, known := range SortModes {
		if m == known {
			return true
		}
	}
	return false
}

// Record is an opaque source row. Sources return raw JSON objects; the
// scorer reads well-known fields (pl_rade, disc_year, sy_dist, ...) when
// present and ignores the rest.
type Record map[string]any

// ResultItem wraps one source record with provenance and relevance
// metadata. Created by the fuser in unscored state and enriched in place
// by the scorer (prd004-ranking R1.3).
type ResultItem struct {
	// Source is the adapter that produced the record.
	Source string `json:"source" yaml:"source"`

	// Dataset is the dataset family the record belongs to.
	Dataset Dataset `json:"dataset" yaml:"dataset"`

	// Record is the raw source row.
	Record Record `json:"record" yaml:"record"`

	// Score is the weighted relevance in [0, 1]. Zero until scored.
	Score float64 `json:"score" yaml:"score"`

	// Breakdown maps scoring factor names to their unweighted [0, 1]
	// contributions.
	Breakdown map[string]float64 `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`

	// Explanation is a short human-readable account of the score.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// DatasetResult is the per-source envelope in a response.
type DatasetResult struct {
	Source      string       `json:"source" yaml:"source"`
	Count       int          `json:"count" yaml:"count"`
	Items       []ResultItem `json:"items" yaml:"items"`
	Predicate   string       `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	Unavailable bool         `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
	Error       string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// ResponseMeta carries cache and latency information.
type ResponseMeta struct {
	CacheHit  bool      `json:"cache_hit" yaml:"cache_hit"`
	LatencyMS int64     `json:"latency_ms" yaml:"latency_ms"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Response is the assembled answer for one query.
type Response struct {
	Query        string                    `json:"query" yaml:"query"`
	Intent       QueryIntent               `json:"intent" yaml:"intent"`
	Datasets     map[Dataset]DatasetResult `json:"datasets" yaml:"datasets"`
	Suggestions  []string                  `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Correlations []string                  `json:"correlations,omitempty" yaml:"correlations,omitempty"`
	TotalResults int                       `json:"total_results" yaml:"total_results"`
	Confidence   float64                   `json:"confidence" yaml:"confidence"`
	Meta         ResponseMeta              `json:"meta" yaml:"meta"`
}

// AnalyticsRecord is one append-only execution log row (prd006-cache R4).
type AnalyticsRecord struct {
	QueryHash    string         `json:"query_hash" yaml:"query_hash"`
	Query        string         `json:"query" yaml:"query"`
	Intent       IntentCategory `json:"intent" yaml:"intent"`
	Complexity   Complexity     `json:"complexity" yaml:"complexity"`
	Datasets     []Dataset      `json:"datasets" yaml:"datasets"`
	ResultCount  int            `json:"result_count" yaml:"result_count"`
	LatencyMS    int64          `json:"latency_ms" yaml:"latency_ms"`
	Timestamp    time.Time      `json:"timestamp" yaml:"timestamp"`
	CacheHit     bool           `json:"cache_hit" yaml:"cache_hit"`
	ErrorMessage string         `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}
