// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/pdiddy/space-hub/internal/predicate"
	"github.com/pdiddy/space-hub/pkg/types"
)

// nasaAPIBase and nasaImagesAPIBase are the api.nasa.gov and image
// library roots. Declared as vars so tests can substitute httptest
// servers.
var (
	nasaAPIBase       = "https://api.nasa.gov"
	nasaImagesAPIBase = "https://images-api.nasa.gov"
	eonetAPIBase      = "https://eonet.gsfc.nasa.gov/api/v3"
)

// donkiDefaultWindowDays is the lookback applied when a DONKI query
// carries no date constraint.
const donkiDefaultWindowDays = 30

// NASAFeedSource multiplexes the api.nasa.gov feeds: rover photos and
// mission manifests, DONKI space weather, the NeoWs asteroid feed, the
// image library, and APOD (R4). The predicate's endpoint fragment
// selects the feed.
type NASAFeedSource struct {
	Client *http.Client
	Cfg    types.SourcesConfig
}

// Name returns the source identifier.
func (s *NASAFeedSource) Name() string { return "nasa_feeds" }

// Dataset returns the dataset this adapter serves.
func (s *NASAFeedSource) Dataset() types.Dataset { return types.DatasetMars }

// Fetch dispatches to the feed the predicate selected.
func (s *NASAFeedSource) Fetch(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	switch ep := pred.Param("endpoint"); ep {
	case "rover_photos":
		return s.roverPhotos(ctx, pred)
	case "manifest":
		return s.manifest(ctx, pred)
	case "donki_flr":
		return s.donki(ctx, pred, "FLR")
	case "donki_cme":
		return s.donki(ctx, pred, "CME")
	case "donki_gst":
		return s.donki(ctx, pred, "GST")
	case "neo_feed":
		return s.neoFeed(ctx, pred)
	case "image_search":
		return s.imageSearch(ctx, pred)
	case "epic":
		return s.epic(ctx)
	case "eonet":
		return s.eonet(ctx, pred)
	case "", "apod":
		return s.apod(ctx, pred)
	default:
		return nil, fmt.Errorf("unknown feed endpoint %q", ep)
	}
}

// apiKey falls back to DEMO_KEY with its lower rate limits.
func (s *NASAFeedSource) apiKey() string {
	if s.Cfg.NASAAPIKey != "" {
		return s.Cfg.NASAAPIKey
	}
	return "DEMO_KEY"
}

func (s *NASAFeedSource) roverPhotos(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	rover := pred.Param("rover")
	if rover == "" {
		rover = "curiosity"
	}

	params := url.Values{"api_key": {s.apiKey()}}
	endpoint := "/latest_photos"
	if sol := pred.Param("sol"); sol != "" {
		endpoint = "/photos"
		params.Set("sol", sol)
	} else if start := pred.Param("start_date"); start != "" {
		endpoint = "/photos"
		params.Set("earth_date", start)
	}

	if cam := pred.Param("camera"); cam != "" {
		params.Set("camera", cam)
	}

	u := fmt.Sprintf("%s/mars-photos/api/v1/rovers/%s%s?%s", nasaAPIBase, rover, endpoint, params.Encode())
	var body struct {
		Photos       []types.Record `json:"photos"`
		LatestPhotos []types.Record `json:"latest_photos"`
	}
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &body); err != nil {
		return nil, fmt.Errorf("rover photos: %w", err)
	}
	if len(body.Photos) > 0 {
		return body.Photos, nil
	}
	return body.LatestPhotos, nil
}

// manifest returns one record summarizing a rover's mission: status,
// launch and landing dates, and photo totals.
func (s *NASAFeedSource) manifest(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	rover := pred.Param("rover")
	if rover == "" {
		rover = "curiosity"
	}

	var body struct {
		PhotoManifest types.Record `json:"photo_manifest"`
	}
	u := fmt.Sprintf("%s/mars-photos/api/v1/manifests/%s?api_key=%s", nasaAPIBase, rover, url.QueryEscape(s.apiKey()))
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &body); err != nil {
		return nil, fmt.Errorf("mission manifest: %w", err)
	}
	if body.PhotoManifest == nil {
		return nil, nil
	}
	// The per-sol photo breakdown runs to thousands of entries; the
	// summary fields are the answer.
	delete(body.PhotoManifest, "photos")
	return []types.Record{body.PhotoManifest}, nil
}

// donki queries the space-weather database for one event kind: solar
// flares, coronal mass ejections, or geomagnetic storms.
func (s *NASAFeedSource) donki(ctx context.Context, pred predicate.Predicate, kind string) ([]types.Record, error) {
	start, end := s.dateWindow(pred, donkiDefaultWindowDays)
	params := url.Values{
		"api_key":   {s.apiKey()},
		"startDate": {start},
		"endDate":   {end},
	}

	var events []types.Record
	u := fmt.Sprintf("%s/DONKI/%s?%s", nasaAPIBase, kind, params.Encode())
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &events); err != nil {
		return nil, fmt.Errorf("donki %s: %w", kind, err)
	}
	return events, nil
}

// neoFeed lists close approaches starting today. NeoWs fills in a week
// when end_date is omitted, which matches the "upcoming" reading of
// asteroid queries.
func (s *NASAFeedSource) neoFeed(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	params := url.Values{
		"api_key":    {s.apiKey()},
		"start_date": {timeNow().UTC().Format("2006-01-02")},
	}

	var body struct {
		NearEarthObjects map[string][]types.Record `json:"near_earth_objects"`
	}
	u := fmt.Sprintf("%s/neo/rest/v1/feed?%s", nasaAPIBase, params.Encode())
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &body); err != nil {
		return nil, fmt.Errorf("neo feed: %w", err)
	}

	dates := make([]string, 0, len(body.NearEarthObjects))
	for d := range body.NearEarthObjects {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out []types.Record
	for _, d := range dates {
		for _, rec := range body.NearEarthObjects[d] {
			rec["close_approach_date"] = d
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *NASAFeedSource) imageSearch(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	params := url.Values{"media_type": {"image"}}
	if q := pred.Param("q"); q != "" {
		params.Set("q", q)
	}
	if start := pred.Param("start_date"); len(start) >= 4 {
		params.Set("year_start", start[:4])
	}
	if end := pred.Param("end_date"); len(end) >= 4 {
		params.Set("year_end", end[:4])
	}

	var body struct {
		Collection struct {
			Items []struct {
				Data  []types.Record `json:"data"`
				Links []struct {
					Href string `json:"href"`
				} `json:"links"`
			} `json:"items"`
		} `json:"collection"`
	}
	u := nasaImagesAPIBase + "/search?" + params.Encode()
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &body); err != nil {
		return nil, fmt.Errorf("image search: %w", err)
	}

	var out []types.Record
	for _, item := range body.Collection.Items {
		if len(item.Data) == 0 {
			continue
		}
		rec := item.Data[0]
		if len(item.Links) > 0 {
			rec["href"] = item.Links[0].Href
		}
		out = append(out, rec)
	}
	return out, nil
}

// epic returns the most recent natural-color Earth images.
func (s *NASAFeedSource) epic(ctx context.Context) ([]types.Record, error) {
	var images []types.Record
	u := fmt.Sprintf("%s/EPIC/api/natural?api_key=%s", nasaAPIBase, url.QueryEscape(s.apiKey()))
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &images); err != nil {
		return nil, fmt.Errorf("epic: %w", err)
	}
	return images, nil
}

// eonet lists open natural events, optionally restricted to the
// category the predicate derived (wildfires, volcanoes).
func (s *NASAFeedSource) eonet(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	params := url.Values{"status": {"open"}}
	if cat := pred.Param("eonet_category"); cat != "" {
		params.Set("category", cat)
	}

	var body struct {
		Events []types.Record `json:"events"`
	}
	u := eonetAPIBase + "/events?" + params.Encode()
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &body); err != nil {
		return nil, fmt.Errorf("eonet: %w", err)
	}
	return body.Events, nil
}

// apod returns the picture of the day, or the range of days when the
// predicate carries dates. The endpoint answers with an object for a
// single day and an array for a range.
func (s *NASAFeedSource) apod(ctx context.Context, pred predicate.Predicate) ([]types.Record, error) {
	params := url.Values{"api_key": {s.apiKey()}}
	if start := pred.Param("start_date"); start != "" {
		params.Set("start_date", start)
	}
	if end := pred.Param("end_date"); end != "" {
		params.Set("end_date", end)
	}

	var raw json.RawMessage
	u := nasaAPIBase + "/planetary/apod?" + params.Encode()
	if err := getJSON(ctx, s.Client, u, s.Cfg.UserAgent, &raw); err != nil {
		return nil, fmt.Errorf("apod: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var recs []types.Record
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, fmt.Errorf("apod: parsing response: %w", err)
		}
		return recs, nil
	}

	var rec types.Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("apod: parsing response: %w", err)
	}
	return []types.Record{rec}, nil
}

// dateWindow resolves the predicate's date fragments into a concrete
// start/end pair, defaulting to a trailing window of defaultDays.
func (s *NASAFeedSource) dateWindow(pred predicate.Predicate, defaultDays int) (string, string) {
	now := timeNow().UTC()
	start := pred.Param("start_date")
	end := pred.Param("end_date")

	if days := pred.Param("recent_days"); days != "" && start == "" {
		if n, err := strconv.Atoi(days); err == nil {
			start = now.AddDate(0, 0, -n).Format("2006-01-02")
		}
	}
	if start == "" {
		start = now.AddDate(0, 0, -defaultDays).Format("2006-01-02")
	}
	if end == "" {
		end = now.Format("2006-01-02")
	}
	return start, end
}
