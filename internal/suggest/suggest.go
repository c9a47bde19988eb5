// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package suggest produces ranked follow-up query strings for an intent.
// Implements: prd005-suggestions (R1-R3).
package suggest

import (
	"strings"

	"github.com/pdiddy/space-hub/pkg/types"
)

// MaxSuggestions bounds the returned list (R1.2).
const MaxSuggestions = 5

// categoryTemplates maps each intent category to its follow-up bank.
// Listed in bank order; earlier templates are considered stronger
// follow-ups.
var categoryTemplates = map[types.IntentCategory][]string{
	types.IntentTracking: {
		"Where is the ISS right now",
		"ISS pass times for my location",
		"Current ISS altitude and velocity",
	},
	types.IntentImagery: {
		"Astronomy picture of the day",
		"Latest photos from Curiosity rover",
		"EPIC natural color images of Earth",
	},
	types.IntentDiscovery: {
		"Earth-sized planets discovered after 2020",
		"Exoplanets discovered by Kepler",
		"Recently discovered super-earths",
	},
	types.IntentComparison: {
		"Planets larger than 2 earth radii",
		"Compare habitable zone planets by distance",
	},
	types.IntentAggregation: {
		"How many exoplanets were discovered this year",
		"Total planets in the habitable zone",
	},
	types.IntentSpaceWeather: {
		"Recent solar flares",
		"Coronal mass ejections last week",
		"Current geomagnetic storm conditions",
	},
	types.IntentHabitability: {
		"Habitable zone planets around sun-like stars",
		"Potentially habitable planets within 50 light years",
		"Rocky planets in the habitable zone",
	},
	types.IntentMission: {
		"Curiosity rover mission manifest",
		"Latest photos from Perseverance",
		"Mars rover photos from sol 1000",
	},
	types.IntentGeneralSearch: {
		"Earth-sized planets discovered after 2020",
		"Where is the ISS right now",
		"Recent solar flares",
		"Latest photos from Curiosity rover",
	},
}

// entityTemplates maps matched canonical entities to entity-specific
// follow-ups, appended after the category bank.
var entityTemplates = map[string][]string{
	"mars":         {"Mars rover photos from sol 1000", "Mars weather report"},
	"iss":          {"Is the ISS overhead right now", "ISS orbital elements"},
	"curiosity":    {"Curiosity rover mission manifest"},
	"perseverance": {"Perseverance rover latest photos"},
	"solar_flare":  {"Solar flares in the last week"},
	"cme":          {"Coronal mass ejection analysis"},
	"asteroid":     {"Near earth objects approaching this week"},
	"jwst":         {"Latest James Webb images"},
	"hubble":       {"Hubble deep field images"},
}

// entityOrder fixes the walk order over entityTemplates.
var entityOrder = []string{
	"mars", "iss", "curiosity", "perseverance", "solar_flare", "cme",
	"asteroid", "jwst", "hubble",
}

// Suggest builds the ranked follow-up list for an intent (R1). The
// category bank comes first, then entity-specific templates in entity
// table order; duplicates and the original query are removed, order
// otherwise preserved.
func Suggest(intent types.QueryIntent) []string {
	var candidates []string
	candidates = append(candidates, categoryTemplates[intent.Category]...)

	// Entity categories and canonical names are walked in fixed order so
	// the output never depends on map iteration.
	for _, cat := range []types.EntityCategory{
		types.EntityPlanet, types.EntityRover, types.EntitySpacecraft, types.EntityPhenomenon,
	} {
		byCanonical := intent.Entities[cat]
		if byCanonical == nil {
			continue
		}
		for _, canonical := range entityOrder {
			if _, matched := byCanonical[canonical]; matched {
				candidates = append(candidates, entityTemplates[canonical]...)
			}
		}
	}

	original := strings.ToLower(strings.TrimSpace(intent.Raw))
	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, c := range candidates {
		key := strings.ToLower(c)
		if seen[key] || key == original {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
