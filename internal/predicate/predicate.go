// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package predicate translates structured intents into per-source filter
// predicates.
// Implements: prd002-predicates (R1-R4);
//
//	docs/ARCHITECTURE § Predicate Builder.
//
// Each dataset has a declarative rule table. Rules fire in declaration
// order and their fragments are combined conjunctively, so the generated
// filter strings are reproducible. A rule whose intent slot is not
// populated emits nothing; a dataset with no rule for a slot silently
// omits it.
package predicate

import (
	"fmt"
	"strings"

	"github.com/pdiddy/space-hub/pkg/types"
)

// Fragment is one source-specific filter condition. For the exoplanet
// dataset Expr is an ADQL condition; for mars and iss it is a query
// parameter value keyed by Field.
type Fragment struct {
	Field       string `json:"field" yaml:"field"`
	Expr        string `json:"expr" yaml:"expr"`
	Description string `json:"description" yaml:"description"`
}

// Predicate is the ordered, conjunctive filter set for one dataset.
type Predicate struct {
	Dataset   types.Dataset `json:"dataset" yaml:"dataset"`
	Fragments []Fragment    `json:"fragments,omitempty" yaml:"fragments,omitempty"`
}

// Where joins the fragment expressions with "and" for ADQL-style sources.
func (p Predicate) Where() string {
	exprs := make([]string, 0, len(p.Fragments))
	for _, f := range p.Fragments {
		exprs = append(exprs, f.Expr)
	}
	return strings.Join(exprs, " and ")
}

// Param returns the first fragment value for field, or "".
func (p Predicate) Param(field string) string {
	for _, f := range p.Fragments {
		if f.Field == field {
			return f.Expr
		}
	}
	return ""
}

// Description joins the human-readable fragment descriptions.
func (p Predicate) Description() string {
	descs := make([]string, 0, len(p.Fragments))
	for _, f := range p.Fragments {
		descs = append(descs, f.Description)
	}
	return strings.Join(descs, "; ")
}

// rule derives zero or more fragments from one intent slot.
type rule struct {
	Name  string
	Apply func(types.QueryIntent) []Fragment
}

// Build derives the predicate for one dataset from the intent (R1).
// Unknown datasets yield an empty predicate.
func Build(intent types.QueryIntent, dataset types.Dataset) Predicate {
	p := Predicate{Dataset: dataset}

	var rules []rule
	switch dataset {
	case types.DatasetExoplanets:
		rules = exoplanetRules
	case types.DatasetMars:
		rules = marsRules
	case types.DatasetISS:
		rules = issRules
	default:
		return p
	}

	for _, r := range rules {
		p.Fragments = append(p.Fragments, r.Apply(intent)...)
	}
	return p
}

// comparisonDirection reports whether the intent asks for values above
// the stated bound. Defaults to an upper bound ("within 50 light years").
func comparisonDirection(intent types.QueryIntent) types.OperatorKind {
	for _, op := range intent.Operators {
		switch op.Kind {
		case types.OpGreater, types.OpLess:
			return op.Kind
		}
	}
	return types.OpLess
}

func numericOfKind(intent types.QueryIntent, kind types.NumericKind) (types.NumericConstraint, bool) {
	for _, n := range intent.Numeric {
		if n.Kind == kind {
			return n, true
		}
	}
	return types.NumericConstraint{}, false
}

func boundFragment(field, quantity string, intent types.QueryIntent, value float64, unit string) Fragment {
	if comparisonDirection(intent) == types.OpGreater {
		return Fragment{
			Field:       field,
			Expr:        fmt.Sprintf("%s>=%g", field, value),
			Description: fmt.Sprintf("%s at least %g %s", quantity, value, unit),
		}
	}
	return Fragment{
		Field:       field,
		Expr:        fmt.Sprintf("%s<=%g", field, value),
		Description: fmt.Sprintf("%s at most %g %s", quantity, value, unit),
	}
}
