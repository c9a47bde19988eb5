// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import "github.com/pdiddy/space-hub/pkg/types"

// Scoring bands mirror the predicate ranges but are applied softly: a
// record outside the band loses score with distance instead of being
// filtered out. max 0 means unbounded above.
type band struct {
	min float64
	max float64
}

var sizeScoreBands = map[types.SizeCategory]band{
	types.SizeEarthLike:   {0.8, 1.25},
	types.SizeSuperEarth:  {1.25, 2.0},
	types.SizeJupiterLike: {6.0, 0},
	types.SizeSmall:       {0, 0.8},
	types.SizeLarge:       {2.0, 0},
	types.SizeRocky:       {0, 1.6},
	types.SizeGaseous:     {3.0, 0},
}

var starScoreBands = map[types.StarType]band{
	types.StarMDwarf:  {2400, 3900},
	types.StarKDwarf:  {3900, 5300},
	types.StarGType:   {5300, 6000},
	types.StarSunLike: {5300, 6000},
	types.StarFType:   {6000, 7300},
}

func sizeBandFor(c types.SizeCategory) (band, bool) {
	b, ok := sizeScoreBands[c]
	return b, ok
}

func starBandFor(st types.StarType) (band, bool) {
	b, ok := starScoreBands[st]
	return b, ok
}
