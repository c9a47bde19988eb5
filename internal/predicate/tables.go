// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package predicate

import (
	"fmt"
	"time"

	"github.com/pdiddy/space-hub/pkg/types"
)

// currentYear is a hook so tests can pin relative-recency fragments.
var currentYear = func() int { return time.Now().Year() }

// recencyYears is how far back "recent" reaches for year-based datasets.
const recencyYears = 2

// recencyDays is how far back "recent" reaches for feed-based datasets.
const recencyDays = 7

// parsecsPerLightYear converts light-years to the parsec values stored
// in the archive's sy_dist column.
const parsecsPerLightYear = 0.306601

// sizeBand is a closed or half-open radius range in Earth radii.
type sizeBand struct {
	Min    float64
	Max    float64 // 0 means unbounded above
	HasMin bool
	HasMax bool
}

// sizeBands maps each size category onto its pl_rade range. The
// earth-like band [0.8, 1.25] matches the archive's terran convention.
var sizeBands = map[types.SizeCategory]sizeBand{
	types.SizeEarthLike:   {Min: 0.8, Max: 1.25, HasMin: true, HasMax: true},
	types.SizeSuperEarth:  {Min: 1.25, Max: 2.0, HasMin: true, HasMax: true},
	types.SizeJupiterLike: {Min: 6.0, HasMin: true},
	types.SizeSmall:       {Max: 0.8, HasMax: true},
	types.SizeLarge:       {Min: 2.0, HasMin: true},
	types.SizeRocky:       {Max: 1.6, HasMax: true},
	types.SizeGaseous:     {Min: 3.0, HasMin: true},
}

// tempBand is an effective-temperature range in kelvin on st_teff.
type tempBand struct {
	Min float64
	Max float64
}

// starTempBands maps stellar classes onto st_teff ranges.
var starTempBands = map[types.StarType]tempBand{
	types.StarMDwarf:  {Min: 2400, Max: 3900},
	types.StarKDwarf:  {Min: 3900, Max: 5300},
	types.StarGType:   {Min: 5300, Max: 6000},
	types.StarSunLike: {Min: 5300, Max: 6000},
	types.StarFType:   {Min: 6000, Max: 7300},
}

// exoplanetRules derives ADQL conditions over the archive's ps table.
// Declaration order fixes the generated where-clause order (R2.1).
var exoplanetRules = []rule{
	{Name: "size", Apply: exoplanetSize},
	{Name: "temporal", Apply: exoplanetTemporal},
	{Name: "habitable_zone", Apply: exoplanetHabitableZone},
	{Name: "star_type", Apply: exoplanetStarType},
	{Name: "distance", Apply: exoplanetDistance},
	{Name: "radius_bound", Apply: exoplanetRadiusBound},
	{Name: "mass_bound", Apply: exoplanetMassBound},
	{Name: "temperature_bound", Apply: exoplanetTempBound},
}

func exoplanetSize(intent types.QueryIntent) []Fragment {
	band, ok := sizeBands[intent.Filters.Size]
	if !ok {
		return nil
	}
	var frags []Fragment
	if band.HasMin {
		frags = append(frags, Fragment{
			Field:       "pl_rade",
			Expr:        fmt.Sprintf("pl_rade>=%g", band.Min),
			Description: fmt.Sprintf("radius at least %g Earth radii", band.Min),
		})
	}
	if band.HasMax {
		frags = append(frags, Fragment{
			Field:       "pl_rade",
			Expr:        fmt.Sprintf("pl_rade<=%g", band.Max),
			Description: fmt.Sprintf("radius at most %g Earth radii", band.Max),
		})
	}
	return frags
}

func exoplanetTemporal(intent types.QueryIntent) []Fragment {
	t := intent.Temporal
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.TemporalYear:
		return []Fragment{{
			Field:       "disc_year",
			Expr:        fmt.Sprintf("disc_year=%d", t.Year),
			Description: fmt.Sprintf("discovered in %d", t.Year),
		}}
	case types.TemporalRange:
		return []Fragment{
			{
				Field:       "disc_year",
				Expr:        fmt.Sprintf("disc_year>=%d", t.StartYear),
				Description: fmt.Sprintf("discovered no earlier than %d", t.StartYear),
			},
			{
				Field:       "disc_year",
				Expr:        fmt.Sprintf("disc_year<=%d", t.EndYear),
				Description: fmt.Sprintf("discovered no later than %d", t.EndYear),
			},
		}
	case types.TemporalAfter:
		return []Fragment{{
			Field:       "disc_year",
			Expr:        fmt.Sprintf("disc_year>%d", t.Year),
			Description: fmt.Sprintf("discovered after %d", t.Year),
		}}
	case types.TemporalSince:
		return []Fragment{{
			Field:       "disc_year",
			Expr:        fmt.Sprintf("disc_year>=%d", t.Year),
			Description: fmt.Sprintf("discovered since %d", t.Year),
		}}
	case types.TemporalBefore:
		return []Fragment{{
			Field:       "disc_year",
			Expr:        fmt.Sprintf("disc_year<%d", t.Year),
			Description: fmt.Sprintf("discovered before %d", t.Year),
		}}
	case types.TemporalRecent:
		since := currentYear() - recencyYears
		return []Fragment{{
			Field:       "disc_year",
			Expr:        fmt.Sprintf("disc_year>=%d", since),
			Description: fmt.Sprintf("discovered since %d", since),
		}}
	}
	return nil
}

// Rough habitable-zone approximation on orbital semi-major axis in AU.
func exoplanetHabitableZone(intent types.QueryIntent) []Fragment {
	if intent.Filters.HabitableZone == nil || !*intent.Filters.HabitableZone {
		return nil
	}
	return []Fragment{
		{
			Field:       "pl_orbsmax",
			Expr:        "pl_orbsmax>0.7",
			Description: "orbit beyond 0.7 AU",
		},
		{
			Field:       "pl_orbsmax",
			Expr:        "pl_orbsmax<1.5",
			Description: "orbit within 1.5 AU",
		},
	}
}

func exoplanetStarType(intent types.QueryIntent) []Fragment {
	band, ok := starTempBands[intent.Filters.StarType]
	if !ok {
		return nil
	}
	return []Fragment{
		{
			Field:       "st_teff",
			Expr:        fmt.Sprintf("st_teff>=%g", band.Min),
			Description: fmt.Sprintf("host star at least %g K", band.Min),
		},
		{
			Field:       "st_teff",
			Expr:        fmt.Sprintf("st_teff<=%g", band.Max),
			Description: fmt.Sprintf("host star at most %g K", band.Max),
		},
	}
}

func exoplanetDistance(intent types.QueryIntent) []Fragment {
	n, ok := numericOfKind(intent, types.NumericDistance)
	if !ok {
		return nil
	}
	var parsecs float64
	switch n.Unit {
	case "light_years":
		parsecs = n.Value * parsecsPerLightYear
	case "parsecs":
		parsecs = n.Value
	default:
		// km, au, and miles are not meaningful against sy_dist.
		return nil
	}
	return []Fragment{boundFragment("sy_dist", "distance", intent, parsecs, "parsecs")}
}

func exoplanetRadiusBound(intent types.QueryIntent) []Fragment {
	n, ok := numericOfKind(intent, types.NumericRadius)
	if !ok || n.Unit != "earth_radii" {
		return nil
	}
	return []Fragment{boundFragment("pl_rade", "radius", intent, n.Value, "Earth radii")}
}

func exoplanetMassBound(intent types.QueryIntent) []Fragment {
	n, ok := numericOfKind(intent, types.NumericMass)
	if !ok || n.Unit != "earth_masses" {
		return nil
	}
	return []Fragment{boundFragment("pl_bmasse", "mass", intent, n.Value, "Earth masses")}
}

func exoplanetTempBound(intent types.QueryIntent) []Fragment {
	n, ok := numericOfKind(intent, types.NumericTemperature)
	if !ok || n.Unit != "kelvin" {
		return nil
	}
	return []Fragment{boundFragment("st_teff", "temperature", intent, n.Value, "K")}
}

// marsRules derive query parameters for the NASA feed adapters (R2.2).
// The endpoint rule routes the adapter to one feed; the rest are that
// feed's query parameters.
var marsRules = []rule{
	{Name: "endpoint", Apply: marsEndpoint},
	{Name: "rover", Apply: marsRover},
	{Name: "camera", Apply: marsCamera},
	{Name: "sol", Apply: marsSol},
	{Name: "date_range", Apply: marsDateRange},
	{Name: "search_terms", Apply: marsSearchTerms},
}

// marsEndpoint selects which NASA feed the adapter should call. The
// checks run from most to least specific so a query naming both a rover
// and "recent" still lands on rover photos.
func marsEndpoint(intent types.QueryIntent) []Fragment {
	phenomena := intent.Entities[types.EntityPhenomenon]
	_, flare := phenomena["solar_flare"]
	_, cme := phenomena["cme"]
	_, storm := phenomena["geomagnetic_storm"]
	_, neo := phenomena["asteroid"]
	_, wildfire := phenomena["wildfire"]
	_, volcano := phenomena["volcano"]
	_, earth := intent.Entities[types.EntityPlanet]["earth"]
	_, sol := numericOfKind(intent, types.NumericSol)

	endpoint := "apod"
	desc := "astronomy picture of the day"
	switch {
	case hasKeyword(intent, "manifest"):
		endpoint, desc = "manifest", "rover mission manifest"
	case sol || len(intent.Entities[types.EntityRover]) > 0:
		endpoint, desc = "rover_photos", "rover photo feed"
	case cme:
		endpoint, desc = "donki_cme", "coronal mass ejection feed"
	case storm:
		endpoint, desc = "donki_gst", "geomagnetic storm feed"
	case flare:
		endpoint, desc = "donki_flr", "solar flare feed"
	case neo:
		endpoint, desc = "neo_feed", "near-Earth object feed"
	case wildfire || volcano:
		frags := []Fragment{{Field: "endpoint", Expr: "eonet", Description: "natural event feed"}}
		if wildfire {
			frags = append(frags, Fragment{Field: "eonet_category", Expr: "wildfires", Description: "wildfire events"})
		} else {
			frags = append(frags, Fragment{Field: "eonet_category", Expr: "volcanoes", Description: "volcano events"})
		}
		return frags
	case intent.Category == types.IntentSpaceWeather:
		endpoint, desc = "donki_flr", "solar flare feed"
	case intent.Category == types.IntentImagery && earth:
		endpoint, desc = "epic", "Earth polychromatic imagery"
	case intent.Category == types.IntentImagery && len(intent.Entities) > 0:
		endpoint, desc = "image_search", "image library search"
	}
	return []Fragment{{Field: "endpoint", Expr: endpoint, Description: desc}}
}

func marsRover(intent types.QueryIntent) []Fragment {
	rovers := intent.Entities[types.EntityRover]
	if len(rovers) == 0 {
		return nil
	}
	// Rover entries are scanned in dictionary order, so pick the
	// earliest canonical present for a reproducible choice.
	for _, canonical := range []string{"curiosity", "perseverance", "opportunity", "spirit"} {
		if _, ok := rovers[canonical]; ok {
			return []Fragment{{
				Field:       "rover",
				Expr:        canonical,
				Description: "rover " + canonical,
			}}
		}
	}
	return nil
}

// roverCameras are the camera codes the photo API accepts.
var roverCameras = []string{"fhaz", "rhaz", "mast", "chemcam", "mahli", "mardi", "navcam", "pancam", "minites"}

func marsCamera(intent types.QueryIntent) []Fragment {
	for _, cam := range roverCameras {
		for _, kw := range intent.Keywords {
			if kw == cam {
				return []Fragment{{
					Field:       "camera",
					Expr:        cam,
					Description: "camera " + cam,
				}}
			}
		}
	}
	return nil
}

func marsSol(intent types.QueryIntent) []Fragment {
	n, ok := numericOfKind(intent, types.NumericSol)
	if !ok {
		return nil
	}
	return []Fragment{{
		Field:       "sol",
		Expr:        fmt.Sprintf("%d", int(n.Value)),
		Description: fmt.Sprintf("sol %d", int(n.Value)),
	}}
}

func marsDateRange(intent types.QueryIntent) []Fragment {
	t := intent.Temporal
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.TemporalYear:
		return []Fragment{
			{Field: "start_date", Expr: fmt.Sprintf("%d-01-01", t.Year), Description: fmt.Sprintf("from start of %d", t.Year)},
			{Field: "end_date", Expr: fmt.Sprintf("%d-12-31", t.Year), Description: fmt.Sprintf("to end of %d", t.Year)},
		}
	case types.TemporalRange:
		return []Fragment{
			{Field: "start_date", Expr: fmt.Sprintf("%d-01-01", t.StartYear), Description: fmt.Sprintf("from start of %d", t.StartYear)},
			{Field: "end_date", Expr: fmt.Sprintf("%d-12-31", t.EndYear), Description: fmt.Sprintf("to end of %d", t.EndYear)},
		}
	case types.TemporalAfter:
		return []Fragment{{Field: "start_date", Expr: fmt.Sprintf("%d-01-01", t.Year+1), Description: fmt.Sprintf("after %d", t.Year)}}
	case types.TemporalSince:
		return []Fragment{{Field: "start_date", Expr: fmt.Sprintf("%d-01-01", t.Year), Description: fmt.Sprintf("since %d", t.Year)}}
	case types.TemporalBefore:
		return []Fragment{{Field: "end_date", Expr: fmt.Sprintf("%d-12-31", t.Year-1), Description: fmt.Sprintf("before %d", t.Year)}}
	case types.TemporalRecent:
		return []Fragment{{Field: "recent_days", Expr: fmt.Sprintf("%d", recencyDays), Description: fmt.Sprintf("last %d days", recencyDays)}}
	}
	return nil
}

func marsSearchTerms(intent types.QueryIntent) []Fragment {
	if len(intent.Keywords) == 0 {
		return nil
	}
	terms := ""
	for i, kw := range intent.Keywords {
		if i > 0 {
			terms += " "
		}
		terms += kw
	}
	return []Fragment{{
		Field:       "q",
		Expr:        terms,
		Description: "matching " + terms,
	}}
}

// issRules derive tracking parameters (R2.3).
var issRules = []rule{
	{Name: "observer", Apply: issObserver},
	{Name: "units", Apply: issUnits},
	{Name: "tle", Apply: issTLE},
}

func issObserver(intent types.QueryIntent) []Fragment {
	s := intent.Spatial
	if s == nil {
		return nil
	}
	return []Fragment{
		{Field: "observer_lat", Expr: fmt.Sprintf("%g", s.Latitude), Description: fmt.Sprintf("observer latitude %g", s.Latitude)},
		{Field: "observer_lon", Expr: fmt.Sprintf("%g", s.Longitude), Description: fmt.Sprintf("observer longitude %g", s.Longitude)},
	}
}

func issUnits(intent types.QueryIntent) []Fragment {
	n, ok := numericOfKind(intent, types.NumericDistance)
	if !ok || n.Unit != "miles" {
		return nil
	}
	return []Fragment{{Field: "units", Expr: "miles", Description: "measurements in miles"}}
}

func issTLE(intent types.QueryIntent) []Fragment {
	if !hasKeyword(intent, "tle") {
		return nil
	}
	return []Fragment{{Field: "tle", Expr: "true", Description: "include orbital elements"}}
}

func hasKeyword(intent types.QueryIntent, want string) bool {
	for _, kw := range intent.Keywords {
		if kw == want {
			return true
		}
	}
	return false
}
