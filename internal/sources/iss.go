// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/pdiddy/space-hub/internal/predicate"
	"github.com/pdiddy/space-hub/pkg/types"
)

// issAPIBase is the wheretheiss.at API root. Declared as a var so tests
// can substitute an httptest server.
var issAPIBase = "https://api.wheretheiss.at/v1"

// issNORADID is the station's NORAD catalog number.
const issNORADID = 25544

// overheadWindowDegrees is the half-width of the latitude/longitude
// window within which the station counts as overhead.
const overheadWindowDegrees = 5.0

const kmPerMile = 1.609344

// ISSSource queries wheretheiss.at for the station's live position (R3).
type ISSSource struct {
	Client *http.Client
	Cfg    types.SourcesConfig
}

// Name returns the source identifier.
func (s *ISSSource) Name() string { return "wheretheiss" }

// Dataset returns the dataset this adapter serves.
func (s *ISSSource) Dataset() types.Dataset { return types.DatasetISS }

// Fetch returns a single record with the current position. When the
// predicate carries an observer, the record also reports whether the
// station is overhead, and the observer's locale when the coordinates
// endpoint answers in time.
func (s *ISSSource) Fetch(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	posURL := fmt.Sprintf("%s/satellites/%d", issAPIBase, issNORADID)
	units := pred.Param("units")
	if units == "miles" {
		posURL += "?units=miles"
	}

	var rec types.Record
	if err := getJSON(ctx, s.Client, posURL, s.Cfg.UserAgent, &rec); err != nil {
		return nil, fmt.Errorf("iss tracker: %w", err)
	}

	if pred.Param("tle") == "true" {
		s.orbitalElements(ctx, rec)
	}

	if latS, lonS := pred.Param("observer_lat"), pred.Param("observer_lon"); latS != "" && lonS != "" {
		lat, latErr := strconv.ParseFloat(latS, 64)
		lon, lonErr := strconv.ParseFloat(lonS, 64)
		if latErr == nil && lonErr == nil {
			rec["observer_latitude"] = lat
			rec["observer_longitude"] = lon
			rec["is_overhead"] = s.overhead(rec, lat, lon, units)
			s.locale(ctx, rec, lat, lon)
		}
	}
	return []types.Record{rec}, nil
}

// overhead applies the coarse visibility check: the station is within
// the angular window of the observer and high enough to clear the
// horizon from most latitudes.
func (s *ISSSource) overhead(rec types.Record, lat, lon float64, units string) bool {
	satLat, ok1 := recFloat(rec, "latitude")
	satLon, ok2 := recFloat(rec, "longitude")
	alt, ok3 := recFloat(rec, "altitude")
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	if units == "miles" {
		alt *= kmPerMile
	}

	minAlt := s.Cfg.OverheadAltitudeKM
	if minAlt <= 0 {
		minAlt = 500
	}
	return math.Abs(satLat-lat) <= overheadWindowDegrees &&
		lonDelta(satLon, lon) <= overheadWindowDegrees &&
		alt >= minAlt
}

// orbitalElements annotates the record with the station's two-line
// element set. Best-effort; failures leave the record as is.
func (s *ISSSource) orbitalElements(ctx context.Context, rec types.Record) {
	var tle struct {
		Header string `json:"header"`
		Line1  string `json:"line1"`
		Line2  string `json:"line2"`
	}
	u := fmt.Sprintf("%s/satellites/%d/tles", issAPIBase, issNORADID)
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &tle); err != nil {
		return
	}
	if tle.Line1 != "" && tle.Line2 != "" {
		rec["tle_header"] = tle.Header
		rec["tle_line1"] = tle.Line1
		rec["tle_line2"] = tle.Line2
	}
}

// locale annotates the record with the observer's timezone and country.
// The coordinates endpoint is best-effort; failures leave the record as
// is.
func (s *ISSSource) locale(ctx context.Context, rec types.Record, lat, lon float64) {
	var loc struct {
		TimezoneID  string `json:"timezone_id"`
		CountryCode string `json:"country_code"`
	}
	u := fmt.Sprintf("%s/coordinates/%g,%g", issAPIBase, lat, lon)
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &loc); err != nil {
		return
	}
	if loc.TimezoneID != "" {
		rec["observer_timezone_id"] = loc.TimezoneID
	}
	if loc.CountryCode != "" {
		rec["observer_country_code"] = loc.CountryCode
	}
}

// lonDelta is the shorter angular distance between two longitudes.
func lonDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func recFloat(rec types.Record, key string) (float64, bool) {
	v, ok := rec[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
