// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores fused result items against the query intent and
// orders them deterministically.
// Implements: prd004-ranking (R1-R5);
//
//	docs/ARCHITECTURE § Relevance Scoring.
package rank

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/space-hub/pkg/types"
)

// Canonical factor weights, version 3. The weights sum to 1.0 and are
// only ever changed together, as one table.
const (
	weightKeyword        = 0.20
	weightTemporal       = 0.20
	weightCharacteristic = 0.20
	weightDistance       = 0.15
	weightHabitability   = 0.10
	weightOperators      = 0.15
)

// Factor names used as breakdown keys.
const (
	FactorKeyword        = "keyword_match"
	FactorTemporal       = "temporal_relevance"
	FactorCharacteristic = "characteristic_match"
	FactorDistance       = "distance_proximity"
	FactorHabitability   = "habitability_match"
	FactorOperators      = "operator_compliance"
)

// neutral is the factor value when a factor has nothing to judge: the
// item is neither rewarded nor punished for data the query did not ask
// about.
const neutral = 0.5

// Scorer computes relevance scores against a fixed reference time, so
// that scoring stays a pure function of (intent, item) for the lifetime
// of a request.
type Scorer struct {
	now time.Time
}

// NewScorer returns a scorer referenced to the current time.
func NewScorer() Scorer { return Scorer{now: time.Now()} }

// NewScorerAt returns a scorer referenced to a fixed time. Tests use
// this to pin recency decay.
func NewScorerAt(now time.Time) Scorer { return Scorer{now: now} }

// Score computes the weighted relevance of item against intent (R1).
// The returned score and every breakdown entry lie in [0, 1]; the final
// score is the weighted factor sum scaled by the intent confidence.
func (s Scorer) Score(intent types.QueryIntent, item types.ResultItem) (float64, map[string]float64) {
	breakdown := map[string]float64{
		FactorKeyword:        s.keywordMatch(intent, item),
		FactorTemporal:       s.temporalRelevance(intent, item),
		FactorCharacteristic: s.characteristicMatch(intent, item),
		FactorDistance:       s.distanceProximity(item),
		FactorHabitability:   s.habitabilityMatch(intent, item),
		FactorOperators:      s.operatorCompliance(intent, item),
	}

	weighted := weightKeyword*breakdown[FactorKeyword] +
		weightTemporal*breakdown[FactorTemporal] +
		weightCharacteristic*breakdown[FactorCharacteristic] +
		weightDistance*breakdown[FactorDistance] +
		weightHabitability*breakdown[FactorHabitability] +
		weightOperators*breakdown[FactorOperators]

	return clamp01(weighted * intent.Confidence), breakdown
}

// ScoreAll enriches every item in place with its score, breakdown, and a
// short explanation (R1.3).
func (s Scorer) ScoreAll(intent types.QueryIntent, items []types.ResultItem) {
	for i := range items {
		score, breakdown := s.Score(intent, items[i])
		items[i].Score = score
		items[i].Breakdown = breakdown
		items[i].Explanation = explain(breakdown)
	}
}

// explain names the strongest factor. Factor names are scanned in a
// fixed order so equal contributions produce a stable explanation.
func explain(breakdown map[string]float64) string {
	order := []string{
		FactorKeyword, FactorTemporal, FactorCharacteristic,
		FactorDistance, FactorHabitability, FactorOperators,
	}
	best := order[0]
	for _, name := range order[1:] {
		if breakdown[name] > breakdown[best] {
			best = name
		}
	}
	return fmt.Sprintf("strongest factor: %s (%.2f)", best, breakdown[best])
}

// keywordMatch scores name/title overlap with the query keywords:
// exact name hits, prefix fuzz, and token overlap.
func (s Scorer) keywordMatch(intent types.QueryIntent, item types.ResultItem) float64 {
	if len(intent.Keywords) == 0 {
		return neutral
	}
	name := strings.ToLower(recordString(item.Record, "pl_name", "name", "title"))
	if name == "" {
		return 0.3
	}

	hits := 0.0
	for _, kw := range intent.Keywords {
		switch {
		case name == kw:
			hits += 1.0
		case strings.Contains(name, kw):
			hits += 0.8
		case fuzzyPrefix(name, kw):
			hits += 0.5
		}
	}
	return clamp01(hits / float64(len(intent.Keywords)))
}

// fuzzyPrefix reports whether any name token shares a 4-rune prefix
// with the keyword.
func fuzzyPrefix(name, kw string) bool {
	if len(kw) < 4 {
		return false
	}
	for _, tok := range strings.Fields(name) {
		if len(tok) >= 4 && tok[:4] == kw[:4] {
			return true
		}
	}
	return false
}

// temporalRelevance scores recency decay plus proximity to any target
// year (R2.2).
func (s Scorer) temporalRelevance(intent types.QueryIntent, item types.ResultItem) float64 {
	year, ok := recordYear(item.Record)
	if !ok {
		return neutral
	}

	t := intent.Temporal
	if t == nil {
		// No temporal ask: mild recency decay over thirty years.
		age := float64(s.now.Year() - year)
		return clamp01(1.0 - age/30.0)
	}

	switch t.Kind {
	case types.TemporalYear:
		return yearProximity(year, t.Year)
	case types.TemporalAfter:
		if year > t.Year {
			return 1.0
		}
		return yearProximity(year, t.Year) * 0.5
	case types.TemporalSince:
		if year >= t.Year {
			return 1.0
		}
		return yearProximity(year, t.Year) * 0.5
	case types.TemporalBefore:
		if year < t.Year {
			return 1.0
		}
		return yearProximity(year, t.Year) * 0.5
	case types.TemporalRange:
		if year >= t.StartYear && year <= t.EndYear {
			return 1.0
		}
		if year < t.StartYear {
			return yearProximity(year, t.StartYear) * 0.5
		}
		return yearProximity(year, t.EndYear) * 0.5
	case types.TemporalRecent:
		age := float64(s.now.Year() - year)
		return clamp01(1.0 - age/5.0)
	}
	return neutral
}

// yearProximity decays linearly over a decade of distance.
func yearProximity(year, target int) float64 {
	return clamp01(1.0 - math.Abs(float64(year-target))/10.0)
}

// characteristicMatch scores the size and star-type filters against the
// record's radius and stellar temperature (R2.3).
func (s Scorer) characteristicMatch(intent types.QueryIntent, item types.ResultItem) float64 {
	scores := []float64{}

	if band, ok := sizeBandFor(intent.Filters.Size); ok {
		if radius, got := recordFloat(item.Record, "pl_rade", "radius"); got {
			scores = append(scores, bandScore(radius, band.min, band.max))
		} else {
			scores = append(scores, 0.3)
		}
	}

	if band, ok := starBandFor(intent.Filters.StarType); ok {
		if teff, got := recordFloat(item.Record, "st_teff"); got {
			scores = append(scores, bandScore(teff, band.min, band.max))
		} else {
			scores = append(scores, 0.3)
		}
	}

	if len(scores) == 0 {
		return neutral
	}
	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}

// bandScore is 1 inside [min, max] and decays with relative distance
// outside it. A zero max means unbounded above.
func bandScore(v, min, max float64) float64 {
	if max == 0 {
		max = math.Inf(1)
	}
	if v >= min && v <= max {
		return 1.0
	}
	if v < min {
		return clamp01(1.0 - (min-v)/min)
	}
	return clamp01(1.0 - (v-max)/max)
}

// distanceProximity ranks closer objects higher (R2.4). Distances are in
// parsecs for exoplanets and kilometers of altitude for satellites; both
// use the same halving scale.
func (s Scorer) distanceProximity(item types.ResultItem) float64 {
	d, ok := recordFloat(item.Record, "sy_dist", "distance", "altitude")
	if !ok || d < 0 {
		return neutral
	}
	return 1.0 / (1.0 + d/100.0)
}

// habitabilityMatch scores the habitable-zone flag against the orbital
// semi-major axis (R2.5).
func (s Scorer) habitabilityMatch(intent types.QueryIntent, item types.ResultItem) float64 {
	if intent.Filters.HabitableZone == nil || !*intent.Filters.HabitableZone {
		return neutral
	}
	orbit, ok := recordFloat(item.Record, "pl_orbsmax")
	if !ok {
		return 0.3
	}
	if orbit > 0.7 && orbit < 1.5 {
		return 1.0
	}
	return 0.1
}

// operatorCompliance checks the numeric comparisons against the record
// (R2.6). The score is the satisfied fraction.
func (s Scorer) operatorCompliance(intent types.QueryIntent, item types.ResultItem) float64 {
	dir := types.OperatorKind("")
	for _, op := range intent.Operators {
		if op.Kind == types.OpGreater || op.Kind == types.OpLess {
			dir = op.Kind
			break
		}
	}
	if dir == "" || len(intent.Numeric) == 0 {
		return neutral
	}

	checked, satisfied := 0, 0
	for _, n := range intent.Numeric {
		field, bound, ok := numericField(n)
		if !ok {
			continue
		}
		v, got := recordFloat(item.Record, field)
		if !got {
			continue
		}
		checked++
		if dir == types.OpGreater && v >= bound {
			satisfied++
		}
		if dir == types.OpLess && v <= bound {
			satisfied++
		}
	}
	if checked == 0 {
		return neutral
	}
	return float64(satisfied) / float64(checked)
}

// numericField maps a numeric constraint onto the record field it
// governs, converting units where needed.
func numericField(n types.NumericConstraint) (string, float64, bool) {
	switch n.Kind {
	case types.NumericRadius:
		return "pl_rade", n.Value, n.Unit == "earth_radii"
	case types.NumericMass:
		return "pl_bmasse", n.Value, n.Unit == "earth_masses"
	case types.NumericTemperature:
		return "st_teff", n.Value, n.Unit == "kelvin"
	case types.NumericDistance:
		switch n.Unit {
		case "parsecs":
			return "sy_dist", n.Value, true
		case "light_years":
			return "sy_dist", n.Value * 0.306601, true
		}
	}
	return "", 0, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// --- record field access ---

// recordFloat returns the first present numeric field among keys.
func recordFloat(rec types.Record, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// recordString returns the first present string field among keys.
func recordString(rec types.Record, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// recordYear extracts a year from disc_year or a date-like field.
func recordYear(rec types.Record) (int, bool) {
	if v, ok := recordFloat(rec, "disc_year", "year"); ok {
		return int(v), true
	}
	for _, k := range []string{"date", "earth_date", "date_created", "beginTime", "startTime"} {
		s, ok := rec[k].(string)
		if !ok || len(s) < 4 {
			continue
		}
		if y, err := strconv.Atoi(s[:4]); err == nil && y > 1900 && y < 2200 {
			return y, true
		}
	}
	return 0, false
}
