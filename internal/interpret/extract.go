// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interpret

import (
	"regexp"
	"strconv"

	"github.com/pdiddy/space-hub/pkg/types"
)

// Temporal patterns, tried in priority order: range, conditional year,
// specific year, relative recency (R3). Only the first matching shape is
// recorded.
var (
	reYearRange = regexp.MustCompile(`\b((?:19|20)\d{2})\s*(?:-|–|to|through)\s*((?:19|20)\d{2})\b`)
	reYearCond  = regexp.MustCompile(`\b(since|after|before)\s+((?:19|20)\d{2})\b`)
	reYear      = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
)

// Numeric value/unit patterns (R4).
var (
	reSol      = regexp.MustCompile(`\bsol\s+(\d+)\b`)
	reDistance = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(light[- ]?years?|ly|parsecs?|pc|au|kilometers?|km|miles?|mi)\b`)
	reMass     = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(earth|jupiter|solar)[- ]mass(?:es)?\b`)
	reRadius   = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(earth|jupiter)[- ]radi(?:us|i)\b`)
	reTemp     = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(kelvin|celsius|fahrenheit|k|c|f)\b`)
)

// reCoords matches a "lat,lon" pair. Candidates outside the valid
// latitude/longitude ranges are discarded, which keeps year lists like
// "2019, 2020" from reading as coordinates.
var reCoords = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)`)

// extractTemporal returns the single temporal shape of the query, or nil.
func extractTemporal(lower, norm string) *types.TemporalConstraint {
	if m := reYearRange.FindStringSubmatch(lower); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if start > end {
			start, end = end, start
		}
		return &types.TemporalConstraint{Kind: types.TemporalRange, StartYear: start, EndYear: end}
	}

	if m := reYearCond.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[2])
		kind := types.TemporalAfter
		switch m[1] {
		case "since":
			kind = types.TemporalSince
		case "before":
			kind = types.TemporalBefore
		}
		return &types.TemporalConstraint{Kind: kind, Year: year}
	}

	if m := reYear.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		return &types.TemporalConstraint{Kind: types.TemporalYear, Year: year}
	}

	for _, p := range relativeRecencyPhrases {
		if containsPhrase(norm, p) {
			return &types.TemporalConstraint{Kind: types.TemporalRecent}
		}
	}

	return nil
}

// canonicalDistanceUnit collapses unit spellings.
func canonicalDistanceUnit(u string) string {
	switch u[0] {
	case 'l':
		return "light_years"
	case 'p':
		return "parsecs"
	case 'a':
		return "au"
	case 'k':
		return "km"
	default:
		return "miles"
	}
}

func canonicalTempUnit(u string) string {
	switch u[0] {
	case 'c':
		return "celsius"
	case 'f':
		return "fahrenheit"
	default:
		return "kelvin"
	}
}

// extractNumeric records every typed value/unit match in pattern order:
// sols, distances, masses, radii, temperatures (R4).
func extractNumeric(lower string) []types.NumericConstraint {
	var out []types.NumericConstraint

	for _, m := range reSol.FindAllStringSubmatch(lower, -1) {
		v, _ := strconv.ParseFloat(m[1], 64)
		out = append(out, types.NumericConstraint{Kind: types.NumericSol, Value: v, Unit: "sol"})
	}
	for _, m := range reDistance.FindAllStringSubmatch(lower, -1) {
		v, _ := strconv.ParseFloat(m[1], 64)
		out = append(out, types.NumericConstraint{Kind: types.NumericDistance, Value: v, Unit: canonicalDistanceUnit(m[2])})
	}
	for _, m := range reMass.FindAllStringSubmatch(lower, -1) {
		v, _ := strconv.ParseFloat(m[1], 64)
		out = append(out, types.NumericConstraint{Kind: types.NumericMass, Value: v, Unit: m[2] + "_masses"})
	}
	for _, m := range reRadius.FindAllStringSubmatch(lower, -1) {
		v, _ := strconv.ParseFloat(m[1], 64)
		out = append(out, types.NumericConstraint{Kind: types.NumericRadius, Value: v, Unit: m[2] + "_radii"})
	}
	for _, m := range reTemp.FindAllStringSubmatch(lower, -1) {
		v, _ := strconv.ParseFloat(m[1], 64)
		out = append(out, types.NumericConstraint{Kind: types.NumericTemperature, Value: v, Unit: canonicalTempUnit(m[2])})
	}

	return out
}

// extractSpatial returns the first coordinate pair that lies inside
// valid latitude/longitude ranges, or nil.
func extractSpatial(lower string) *types.SpatialConstraint {
	for _, m := range reCoords.FindAllStringSubmatch(lower, -1) {
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lon, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}
		return &types.SpatialConstraint{Latitude: lat, Longitude: lon}
	}
	return nil
}
