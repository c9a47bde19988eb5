// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/space-hub/internal/predicate"
	"github.com/pdiddy/space-hub/pkg/types"
)

func marsPredicate(frags ...predicate.Fragment) predicate.Predicate {
	return predicate.Predicate{Dataset: types.DatasetMars, Fragments: frags}
}

func pinTime(t *testing.T, at time.Time) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = old })
}

func swapNASABase(t *testing.T, url string) {
	t.Helper()
	old := nasaAPIBase
	nasaAPIBase = url
	t.Cleanup(func() { nasaAPIBase = old })
}

func TestNASAFeedRoverPhotosBySol(t *testing.T) {
	var gotPath, gotSol, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSol = r.URL.Query().Get("sol")
		gotKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"photos": [
			{"id": 102693, "sol": 1000, "camera": {"name": "FHAZ"}, "earth_date": "2015-05-30"},
			{"id": 102694, "sol": 1000, "camera": {"name": "RHAZ"}, "earth_date": "2015-05-30"}
		]}`)
	}))
	defer ts.Close()
	swapNASABase(t, ts.URL)

	s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	pred := marsPredicate(
		predicate.Fragment{Field: "endpoint", Expr: "rover_photos"},
		predicate.Fragment{Field: "rover", Expr: "curiosity"},
		predicate.Fragment{Field: "sol", Expr: "1000"},
	)

	recs, err := s.Fetch(context.Background(), pred)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if gotPath != "/mars-photos/api/v1/rovers/curiosity/photos" {
		t.Errorf("path = %q, want curiosity photos endpoint", gotPath)
	}
	if gotSol != "1000" {
		t.Errorf("sol = %q, want 1000", gotSol)
	}
	if gotKey != "DEMO_KEY" {
		t.Errorf("api_key = %q, want DEMO_KEY fallback", gotKey)
	}
}

func TestNASAFeedRoverPhotosLatestWithoutDates(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"latest_photos": [{"id": 1, "sol": 4102}]}`)
	}))
	defer ts.Close()
	swapNASABase(t, ts.URL)

	s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	pred := marsPredicate(
		predicate.Fragment{Field: "endpoint", Expr: "rover_photos"},
		predicate.Fragment{Field: "rover", Expr: "perseverance"},
	)

	recs, err := s.Fetch(context.Background(), pred)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	if gotPath != "/mars-photos/api/v1/rovers/perseverance/latest_photos" {
		t.Errorf("path = %q, want latest_photos endpoint", gotPath)
	}
}

func TestNASAFeedManifest(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"photo_manifest": {
			"name": "Curiosity", "status": "active", "max_sol": 4102,
			"total_photos": 695670,
			"photos": [{"sol": 0, "total_photos": 3702}]
		}}`)
	}))
	defer ts.Close()
	swapNASABase(t, ts.URL)

	s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	recs, err := s.Fetch(context.Background(), marsPredicate(
		predicate.Fragment{Field: "endpoint", Expr: "manifest"},
		predicate.Fragment{Field: "rover", Expr: "curiosity"},
	))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	if gotPath != "/mars-photos/api/v1/manifests/curiosity" {
		t.Errorf("path = %q, want curiosity manifest endpoint", gotPath)
	}
	if recs[0]["name"] != "Curiosity" || recs[0]["status"] != "active" {
		t.Errorf("manifest record = %v, want summary fields", recs[0])
	}
	if _, ok := recs[0]["photos"]; ok {
		t.Error("per-sol photo breakdown kept, want it dropped")
	}
}

func TestNASAFeedDONKIWindow(t *testing.T) {
	pinTime(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	var gotPath, gotStart, gotEnd string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("startDate")
		gotEnd = r.URL.Query().Get("endDate")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"flrID": "2026-03-10T12:00:00-FLR-001", "classType": "M1.2"}]`)
	}))
	defer ts.Close()
	swapNASABase(t, ts.URL)

	s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}

	// recent_days narrows the default 30-day lookback.
	pred := marsPredicate(
		predicate.Fragment{Field: "endpoint", Expr: "donki_flr"},
		predicate.Fragment{Field: "recent_days", Expr: "7"},
	)
	recs, err := s.Fetch(context.Background(), pred)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	if gotPath != "/DONKI/FLR" {
		t.Errorf("path = %q, want /DONKI/FLR", gotPath)
	}
	if gotStart != "2026-03-08" || gotEnd != "2026-03-15" {
		t.Errorf("window = %s..%s, want 2026-03-08..2026-03-15", gotStart, gotEnd)
	}

	// Without any date fragment the default window applies.
	pred = marsPredicate(predicate.Fragment{Field: "endpoint", Expr: "donki_cme"})
	if _, err := s.Fetch(context.Background(), pred); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotPath != "/DONKI/CME" {
		t.Errorf("path = %q, want /DONKI/CME", gotPath)
	}
	if gotStart != "2026-02-13" {
		t.Errorf("startDate = %q, want 2026-02-13 (30-day default)", gotStart)
	}

	// Geomagnetic storms are their own DONKI event kind.
	pred = marsPredicate(predicate.Fragment{Field: "endpoint", Expr: "donki_gst"})
	if _, err := s.Fetch(context.Background(), pred); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotPath != "/DONKI/GST" {
		t.Errorf("path = %q, want /DONKI/GST", gotPath)
	}
}

func TestNASAFeedNeoFlattensByDate(t *testing.T) {
	pinTime(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"near_earth_objects": {
			"2026-03-16": [{"name": "(2026 BX)"}],
			"2026-03-15": [{"name": "(2019 AA)"}, {"name": "(2021 QQ)"}]
		}}`)
	}))
	defer ts.Close()
	swapNASABase(t, ts.URL)

	s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	pred := marsPredicate(predicate.Fragment{Field: "endpoint", Expr: "neo_feed"})

	recs, err := s.Fetch(context.Background(), pred)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, want 3", len(recs))
	}
	// Dates are walked in sorted order so the flattening is stable.
	if recs[0]["name"] != "(2019 AA)" || recs[2]["name"] != "(2026 BX)" {
		t.Errorf("flattened order = %v, %v, %v", recs[0]["name"], recs[1]["name"], recs[2]["name"])
	}
	if recs[0]["close_approach_date"] != "2026-03-15" {
		t.Errorf("close_approach_date = %v, want 2026-03-15", recs[0]["close_approach_date"])
	}
}

func TestNASAFeedImageSearch(t *testing.T) {
	var gotQ, gotMedia string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		gotMedia = r.URL.Query().Get("media_type")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"collection": {"items": [
			{"data": [{"title": "Jupiter from Juno", "date_created": "2022-01-05T00:00:00Z"}],
			 "links": [{"href": "https://example.invalid/juno.jpg"}]},
			{"data": []}
		]}}`)
	}))
	defer ts.Close()

	old := nasaImagesAPIBase
	nasaImagesAPIBase = ts.URL
	defer func() { nasaImagesAPIBase = old }()

	s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	pred := marsPredicate(
		predicate.Fragment{Field: "endpoint", Expr: "image_search"},
		predicate.Fragment{Field: "q", Expr: "jupiter"},
	)

	recs, err := s.Fetch(context.Background(), pred)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotQ != "jupiter" || gotMedia != "image" {
		t.Errorf("query = (%q, %q), want (jupiter, image)", gotQ, gotMedia)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1 (items without data are skipped)", len(recs))
	}
	if recs[0]["href"] != "https://example.invalid/juno.jpg" {
		t.Errorf("href = %v, want preview link", recs[0]["href"])
	}
}

func TestNASAFeedAPOD(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"single day object", `{"title": "Orion Nebula", "date": "2026-03-15"}`, 1},
		{"date range array", `[{"title": "A", "date": "2026-03-14"}, {"title": "B", "date": "2026-03-15"}]`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()
			swapNASABase(t, ts.URL)

			s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}
			recs, err := s.Fetch(context.Background(), marsPredicate(
				predicate.Fragment{Field: "endpoint", Expr: "apod"},
			))
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if len(recs) != tt.want {
				t.Errorf("len(recs) = %d, want %d", len(recs), tt.want)
			}
		})
	}
}

func TestNASAFeedEPIC(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"identifier": "20260314003633", "caption": "Earth from DSCOVR", "image": "epic_1b_20260314003633"}]`)
	}))
	defer ts.Close()
	swapNASABase(t, ts.URL)

	s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	recs, err := s.Fetch(context.Background(), marsPredicate(
		predicate.Fragment{Field: "endpoint", Expr: "epic"},
	))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	if gotPath != "/EPIC/api/natural" {
		t.Errorf("path = %q, want /EPIC/api/natural", gotPath)
	}
}

func TestNASAFeedEONET(t *testing.T) {
	var gotCategory, gotStatus string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("category")
		gotStatus = r.URL.Query().Get("status")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"events": [{"id": "EONET_1234", "title": "Ridge Fire, California"}]}`)
	}))
	defer ts.Close()

	old := eonetAPIBase
	eonetAPIBase = ts.URL
	defer func() { eonetAPIBase = old }()

	s := &NASAFeedSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	recs, err := s.Fetch(context.Background(), marsPredicate(
		predicate.Fragment{Field: "endpoint", Expr: "eonet"},
		predicate.Fragment{Field: "eonet_category", Expr: "wildfires"},
	))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 1 || recs[0]["id"] != "EONET_1234" {
		t.Fatalf("recs = %v, want the single open event", recs)
	}
	if gotCategory != "wildfires" || gotStatus != "open" {
		t.Errorf("query = (%q, %q), want (wildfires, open)", gotCategory, gotStatus)
	}
}

func TestNASAFeedUnknownEndpoint(t *testing.T) {
	s := &NASAFeedSource{Client: http.DefaultClient, Cfg: testSourcesCfg()}
	_, err := s.Fetch(context.Background(), marsPredicate(
		predicate.Fragment{Field: "endpoint", Expr: "bogus"},
	))
	if err == nil {
		t.Fatal("Fetch returned nil error for an unknown endpoint")
	}
}

func TestNASAFeedAPIKeyOverride(t *testing.T) {
	var gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"title": "x"}`)
	}))
	defer ts.Close()
	swapNASABase(t, ts.URL)

	cfg := testSourcesCfg()
	cfg.NASAAPIKey = "real-key"
	s := &NASAFeedSource{Client: ts.Client(), Cfg: cfg}
	if _, err := s.Fetch(context.Background(), marsPredicate()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotKey != "real-key" {
		t.Errorf("api_key = %q, want real-key", gotKey)
	}
}
