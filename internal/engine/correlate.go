// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"

	"github.com/pdiddy/space-hub/pkg/types"
)

// correlate derives cross-dataset observations from the assembled
// results. Rules run in a fixed order so the output is reproducible.
func correlate(intent types.QueryIntent, datasets map[types.Dataset]types.DatasetResult) []string {
	var out []string

	if exo, ok := datasets[types.DatasetExoplanets]; ok && exo.Count > 0 {
		if n := habitableCount(exo.Items); n > 0 {
			out = append(out, fmt.Sprintf("%d of the matched exoplanets orbit within their star's habitable zone", n))
		}
		if mars, ok := datasets[types.DatasetMars]; ok && mars.Count > 0 {
			out = append(out, "Mars mission imagery is available alongside these exoplanet discoveries")
		}
	}

	if iss, ok := datasets[types.DatasetISS]; ok && iss.Count > 0 {
		if overhead, ok := issOverhead(iss.Items); ok {
			if overhead {
				out = append(out, "The ISS is currently overhead of the requested observer")
			} else {
				out = append(out, "The ISS is not currently overhead of the requested observer")
			}
		}
	}
	return out
}

// habitableCount counts records whose orbital distance falls in the
// habitable band.
func habitableCount(items []types.ResultItem) int {
	n := 0
	for _, item := range items {
		v, ok := item.Record["pl_orbsmax"].(float64)
		if ok && v > 0.7 && v < 1.5 {
			n++
		}
	}
	return n
}

// issOverhead reads the overhead flag from the tracker record, if the
// query carried an observer.
func issOverhead(items []types.ResultItem) (bool, bool) {
	for _, item := range items {
		if v, ok := item.Record["is_overhead"].(bool); ok {
			return v, true
		}
	}
	return false, false
}
