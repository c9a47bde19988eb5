// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"sort"

	"github.com/pdiddy/space-hub/pkg/types"
)

// Rank orders items by score desc, then recency desc, then distance asc
// (R4). The order is total: equal-score items are never interchangeable,
// so re-sorting a ranked list is a no-op.
func Rank(items []types.ResultItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessRelevant(items[j], items[i])
	})
}

// lessRelevant reports whether a ranks strictly below b.
func lessRelevant(a, b types.ResultItem) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	ay, aok := recordYear(a.Record)
	by, bok := recordYear(b.Record)
	if aok && bok && ay != by {
		return ay < by
	}
	if aok != bok {
		return !aok
	}
	ad := itemDistance(a)
	bd := itemDistance(b)
	if ad != bd {
		return ad > bd
	}
	// Final tie-break on name keeps the order total.
	return recordString(a.Record, "pl_name", "name", "title") >
		recordString(b.Record, "pl_name", "name", "title")
}

func itemDistance(item types.ResultItem) float64 {
	if d, ok := recordFloat(item.Record, "sy_dist", "distance", "altitude"); ok {
		return d
	}
	return math.Inf(1)
}

// Sort orders items by the caller-selected strategy (R5). Relevance is
// the full Rank order; the others sort on one record attribute with the
// relevance order as tie-break.
func Sort(items []types.ResultItem, mode types.SortMode) {
	switch mode {
	case types.SortDate:
		sort.SliceStable(items, func(i, j int) bool {
			ay, aok := recordYear(items[i].Record)
			by, bok := recordYear(items[j].Record)
			if aok && bok && ay != by {
				return ay > by
			}
			if aok != bok {
				return aok
			}
			return lessRelevant(items[j], items[i])
		})
	case types.SortDistance:
		sort.SliceStable(items, func(i, j int) bool {
			ad, bd := itemDistance(items[i]), itemDistance(items[j])
			if ad != bd {
				return ad < bd
			}
			return lessRelevant(items[j], items[i])
		})
	case types.SortSize:
		sort.SliceStable(items, func(i, j int) bool {
			ar, aok := recordFloat(items[i].Record, "pl_rade", "radius")
			br, bok := recordFloat(items[j].Record, "pl_rade", "radius")
			if aok && bok && ar != br {
				return ar > br
			}
			if aok != bok {
				return aok
			}
			return lessRelevant(items[j], items[i])
		})
	default:
		Rank(items)
	}
}
