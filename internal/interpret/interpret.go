// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package interpret turns free-text queries into structured intents.
// Implements: prd001-interpret (R1-R8);
//
//	docs/ARCHITECTURE § Query Understanding.
//
// Interpret is deterministic and total: it never fails, and identical
// text always yields an identical intent. The rule tables in tables.go
// are the only knowledge source; there is no trained model and no
// network access.
package interpret

import (
	"strings"
	"unicode"

	"github.com/pdiddy/space-hub/pkg/types"
)

// Interpret parses text into a QueryIntent (R1). An empty or
// unrecognizable query yields a general_search intent with no entities
// and low confidence rather than an error (R1.5).
func Interpret(text string) types.QueryIntent {
	lower := strings.ToLower(text)
	tokens := tokenize(lower)
	norm := " " + strings.Join(tokens, " ") + " "

	intent := types.QueryIntent{
		Raw:      text,
		Keywords: keywords(tokens),
		Entities: matchEntities(norm),
		Temporal: extractTemporal(lower, norm),
		Numeric:  extractNumeric(lower),
		Spatial:  extractSpatial(lower),
		Filters:  inferFilters(norm),
		Operators: detectOperators(norm),
	}

	intent.Category, intent.Confidence = classify(tokens, norm)
	intent.Complexity = complexity(intent)
	return intent
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// keywords keeps tokens longer than two runes that are not stop words (R1.1).
func keywords(tokens []string) []string {
	var kws []string
	for _, t := range tokens {
		if len(t) > 2 && !stopWords[t] {
			kws = append(kws, t)
		}
	}
	return kws
}

// containsPhrase reports whether the space-padded normalized text contains
// phrase as whole words.
func containsPhrase(norm, phrase string) bool {
	return strings.Contains(norm, " "+phrase+" ")
}

// matchEntities scans every synonym dictionary in declaration order (R2).
// The first matching synonym per canonical name wins; canonical names
// with no match are absent from the result.
func matchEntities(norm string) types.EntityMatches {
	matches := make(types.EntityMatches)
	for _, table := range entityTables {
		for _, entry := range table.Entries {
			for _, syn := range entry.Synonyms {
				if containsPhrase(norm, syn) {
					if matches[table.Category] == nil {
						matches[table.Category] = make(map[string]string)
					}
					matches[table.Category][entry.Canonical] = syn
					break
				}
			}
		}
	}
	if len(matches) == 0 {
		return nil
	}
	return matches
}

// inferFilters fills the size, habitability, and star-type slots.
// First matching rule wins per slot (R5).
func inferFilters(norm string) types.FilterSet {
	var fs types.FilterSet

	for _, rule := range sizeRules {
		for _, p := range rule.Phrases {
			if containsPhrase(norm, p) {
				fs.Size = rule.Size
				break
			}
		}
		if fs.Size != "" {
			break
		}
	}

	for _, p := range habitabilityPhrases {
		if containsPhrase(norm, p) {
			hz := true
			fs.HabitableZone = &hz
			break
		}
	}

	for _, rule := range starTypeRules {
		for _, p := range rule.Phrases {
			if containsPhrase(norm, p) {
				fs.StarType = rule.Star
				break
			}
		}
		if fs.StarType != "" {
			break
		}
	}

	return fs
}

// detectOperators records every comparison phrase present, with its
// matched text and position in the normalized query (R7). A phrase is
// recorded once, at its first occurrence.
func detectOperators(norm string) []types.LogicalOperator {
	var ops []types.LogicalOperator
	for _, rule := range operatorRules {
		for _, p := range rule.Phrases {
			idx := strings.Index(norm, " "+p+" ")
			if idx < 0 {
				continue
			}
			ops = append(ops, types.LogicalOperator{
				Kind:     rule.Kind,
				Text:     p,
				Position: idx,
			})
			break
		}
	}
	if len(ops) == 0 {
		return nil
	}
	return ops
}

// classify scores every intent category and returns the winner with a
// normalized confidence (R6). Ties keep the earlier category in
// IntentCategories order; a zero best score falls back to general_search.
func classify(tokens []string, norm string) (types.IntentCategory, float64) {
	tokenSet := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = true
	}

	best := types.IntentGeneralSearch
	bestScore := 0.0
	for _, rule := range intentRules {
		score := 0.0
		for _, kw := range rule.Keywords {
			if tokenSet[kw.Term] {
				score += kw.Weight
			}
		}
		for _, hint := range rule.Hints {
			if containsPhrase(norm, hint) {
				score += hintBonus
			}
		}
		if score > bestScore {
			best = rule.Category
			bestScore = score
		}
	}

	if bestScore == 0 {
		return types.IntentGeneralSearch, fallbackConfidence
	}

	conf := bestScore / confidenceNorm
	if conf > 1 {
		conf = 1
	}
	return best, conf
}

// slot weights for the complexity score (R8).
const (
	entityWeight   = 1
	temporalWeight = 2
	numericWeight  = 2
	spatialWeight  = 2
	filterWeight   = 2
	operatorWeight = 1
)

// complexity buckets the intent by a weighted count of populated
// constraint slots (R8).
func complexity(intent types.QueryIntent) types.Complexity {
	score := 0
	for _, byCategory := range intent.Entities {
		score += entityWeight * len(byCategory)
	}
	if intent.Temporal != nil {
		score += temporalWeight
	}
	score += numericWeight * len(intent.Numeric)
	if intent.Spatial != nil {
		score += spatialWeight
	}
	if intent.Filters.Size != "" {
		score += filterWeight
	}
	if intent.Filters.HabitableZone != nil {
		score += filterWeight
	}
	if intent.Filters.StarType != "" {
		score += filterWeight
	}
	score += operatorWeight * len(intent.Operators)

	switch {
	case score <= 2:
		return types.ComplexitySimple
	case score <= 6:
		return types.ComplexityModerate
	default:
		return types.ComplexityComplex
	}
}
