// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/space-hub/internal/predicate"
	"github.com/pdiddy/space-hub/pkg/types"
)

const sampleTAPJSON = `[
  {"pl_name": "Kepler-452 b", "hostname": "Kepler-452", "pl_rade": 1.63,
   "disc_year": 2015, "st_teff": 5757, "sy_dist": 551.7, "pl_orbsmax": 1.046},
  {"pl_name": "TRAPPIST-1 e", "hostname": "TRAPPIST-1", "pl_rade": 0.92,
   "disc_year": 2017, "st_teff": 2566, "sy_dist": 12.43, "pl_orbsmax": 0.029}
]`

func testSourcesCfg() types.SourcesConfig {
	return types.SourcesConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "space-hub-test/0.1"},
	}
}

func TestExoplanetADQL(t *testing.T) {
	pred := predicate.Predicate{
		Dataset: types.DatasetExoplanets,
		Fragments: []predicate.Fragment{
			{Field: "pl_rade", Expr: "pl_rade>=0.8"},
			{Field: "disc_year", Expr: "disc_year>2020"},
		},
	}

	s := &ExoplanetSource{MaxRows: 25}
	got := s.adql(pred)
	want := "select top 25 " + exoplanetColumns +
		" from ps where default_flag=1 and pl_rade>=0.8 and disc_year>2020 order by disc_year desc"
	if got != want {
		t.Errorf("adql() = %q, want %q", got, want)
	}
}

func TestExoplanetADQLEmptyPredicate(t *testing.T) {
	s := &ExoplanetSource{}
	got := s.adql(predicate.Predicate{Dataset: types.DatasetExoplanets})
	if !strings.Contains(got, "where default_flag=1 order by") {
		t.Errorf("adql() = %q, want bare default_flag filter", got)
	}
	if !strings.HasPrefix(got, "select top 50 ") {
		t.Errorf("adql() = %q, want default row cap of 50", got)
	}
}

func TestExoplanetFetch(t *testing.T) {
	var gotQuery, gotFormat string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotFormat = r.URL.Query().Get("format")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleTAPJSON)
	}))
	defer ts.Close()

	old := exoplanetTAPBase
	exoplanetTAPBase = ts.URL
	defer func() { exoplanetTAPBase = old }()

	s := &ExoplanetSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	recs, err := s.Fetch(context.Background(), predicate.Predicate{Dataset: types.DatasetExoplanets})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0]["pl_name"] != "Kepler-452 b" {
		t.Errorf("pl_name = %v, want Kepler-452 b", recs[0]["pl_name"])
	}
	if gotFormat != "json" {
		t.Errorf("format = %q, want json", gotFormat)
	}
	if !strings.Contains(gotQuery, "from ps where default_flag=1") {
		t.Errorf("query = %q, missing ps table clause", gotQuery)
	}
}

func TestExoplanetFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	old := exoplanetTAPBase
	exoplanetTAPBase = ts.URL
	defer func() { exoplanetTAPBase = old }()

	s := &ExoplanetSource{Client: ts.Client(), Cfg: testSourcesCfg()}
	if _, err := s.Fetch(context.Background(), predicate.Predicate{}); err == nil {
		t.Fatal("Fetch returned nil error on HTTP 503")
	}
}
