// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the space-hub pipeline.
// Implements: prd001-interpret (QueryIntent, R1.1-R1.8);
//
//	prd003-fusion (ResultItem, Record);
//	prd006-cache (CacheEntry, AnalyticsRecord).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

// IntentCategory classifies the purpose of a free-text query.
// Per prd001-interpret R6.1 the set is closed; classification ties are
// broken by the declaration order in IntentCategories.
type IntentCategory string

const (
	IntentTracking      IntentCategory = "tracking"
	IntentImagery       IntentCategory = "imagery"
	IntentDiscovery     IntentCategory = "discovery"
	IntentComparison    IntentCategory = "comparison"
	IntentAggregation   IntentCategory = "aggregation"
	IntentSpaceWeather  IntentCategory = "space_weather"
	IntentHabitability  IntentCategory = "habitability"
	IntentMission       IntentCategory = "mission"
	IntentGeneralSearch IntentCategory = "general_search"
)

// IntentCategories lists all categories in tie-break order.
var IntentCategories = []IntentCategory{
	IntentTracking,
	IntentImagery,
	IntentDiscovery,
	IntentComparison,
	IntentAggregation,
	IntentSpaceWeather,
	IntentHabitability,
	IntentMission,
	IntentGeneralSearch,
}

// EntityCategory names a synonym dictionary.
type EntityCategory string

const (
	EntityPlanet     EntityCategory = "planet"
	EntityRover      EntityCategory = "rover"
	EntitySpacecraft EntityCategory = "spacecraft"
	EntityPhenomenon EntityCategory = "phenomenon"
)

// TemporalKind identifies which temporal shape a query carries. Exactly
// one shape is recorded per query (prd001-interpret R3.4).
type TemporalKind string

const (
	TemporalYear   TemporalKind = "year"
	TemporalRange  TemporalKind = "year_range"
	TemporalAfter  TemporalKind = "year_after"
	TemporalBefore TemporalKind = "year_before"
	TemporalSince  TemporalKind = "year_since"
	TemporalRecent TemporalKind = "relative_recent"
)

// TemporalConstraint is the single temporal shape extracted from a query.
// Year is set for year/after/before/since; StartYear and EndYear for
// ranges. Recent shapes carry neither.
type TemporalConstraint struct {
	Kind      TemporalKind `json:"kind" yaml:"kind"`
	Year      int          `json:"year,omitempty" yaml:"year,omitempty"`
	StartYear int          `json:"start_year,omitempty" yaml:"start_year,omitempty"`
	EndYear   int          `json:"end_year,omitempty" yaml:"end_year,omitempty"`
}

// NumericKind identifies the measured quantity of a numeric constraint.
type NumericKind string

const (
	NumericDistance    NumericKind = "distance"
	NumericMass        NumericKind = "mass"
	NumericRadius      NumericKind = "radius"
	NumericTemperature NumericKind = "temperature"
	NumericSol         NumericKind = "sol"
)

// NumericConstraint is a typed value with its detected unit
// (e.g. 50 light-years, sol 1000).
type NumericConstraint struct {
	Kind  NumericKind `json:"kind" yaml:"kind"`
	Value float64     `json:"value" yaml:"value"`
	Unit  string      `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// SpatialConstraint is an observer coordinate pair.
type SpatialConstraint struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// SizeCategory is a closed set of planet-size buckets mapped onto radius
// ranges by the predicate builder.
type SizeCategory string

const (
	SizeEarthLike   SizeCategory = "earth-like"
	SizeSuperEarth  SizeCategory = "super-earth"
	SizeJupiterLike SizeCategory = "jupiter-like"
	SizeSmall       SizeCategory = "small"
	SizeLarge       SizeCategory = "large"
	SizeRocky       SizeCategory = "rocky"
	SizeGaseous     SizeCategory = "gaseous"
)

// StarType is a closed set of stellar classes mapped onto effective
// temperature bands.
type StarType string

const (
	StarSunLike StarType = "sun-like"
	StarMDwarf  StarType = "m-dwarf"
	StarKDwarf  StarType = "k-dwarf"
	StarGType   StarType = "g-type"
	StarFType   StarType = "f-type"
)

// FilterSet holds the inferred categorical filters. Zero values mean the
// slot is unpopulated; HabitableZone uses a pointer so "explicitly false"
// stays distinguishable.
type FilterSet struct {
	Size          SizeCategory `json:"size,omitempty" yaml:"size,omitempty"`
	HabitableZone *bool        `json:"habitable_zone,omitempty" yaml:"habitable_zone,omitempty"`
	StarType      StarType     `json:"star_type,omitempty" yaml:"star_type,omitempty"`
}

// OperatorKind identifies a detected logical or comparison operator.
type OperatorKind string

const (
	OpAnd     OperatorKind = "and"
	OpOr      OperatorKind = "or"
	OpNot     OperatorKind = "not"
	OpGreater OperatorKind = "greater_than"
	OpLess    OperatorKind = "less_than"
	OpBetween OperatorKind = "between"
)

// LogicalOperator records one detected operator with its matched text and
// byte position in the normalized query.
type LogicalOperator struct {
	Kind     OperatorKind `json:"kind" yaml:"kind"`
	Text     string       `json:"text" yaml:"text"`
	Position int          `json:"position" yaml:"position"`
}

// Complexity buckets a query by how many constraint slots it populates.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// EntityMatches maps canonical entity names to the synonym text that
// matched them, per category.
type EntityMatches map[EntityCategory]map[string]string

// QueryIntent is the structured interpretation of a free-text query.
// It is constructed once per request by interpret.Interpret and never
// mutated afterwards (prd001-interpret R1.8).
type QueryIntent struct {
	// Raw is the original query text, untrimmed.
	Raw string `json:"raw" yaml:"raw"`

	// Category is the classified purpose of the query.
	Category IntentCategory `json:"category" yaml:"category"`

	// Keywords are the stop-word-stripped tokens of length > 2.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Entities maps category → canonical name → matched synonym.
	Entities EntityMatches `json:"entities,omitempty" yaml:"entities,omitempty"`

	// Temporal is the single temporal shape, or nil.
	Temporal *TemporalConstraint `json:"temporal,omitempty" yaml:"temporal,omitempty"`

	// Numeric holds typed value/unit matches in extraction order.
	Numeric []NumericConstraint `json:"numeric,omitempty" yaml:"numeric,omitempty"`

	// Spatial is an observer coordinate pair, or nil.
	Spatial *SpatialConstraint `json:"spatial,omitempty" yaml:"spatial,omitempty"`

	// Filters are the inferred size/habitability/star-type slots.
	Filters FilterSet `json:"filters" yaml:"filters"`

	// Operators lists detected logical operators in match order.
	Operators []LogicalOperator `json:"operators,omitempty" yaml:"operators,omitempty"`

	// Complexity is derived from the populated constraint slots.
	Complexity Complexity `json:"complexity" yaml:"complexity"`

	// Confidence is the normalized classification score in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}
