// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interpret

import "github.com/pdiddy/space-hub/pkg/types"

// The tables below are scanned in declaration order, and the first match
// wins per slot. That ordering is part of the interpreter contract:
// repeated calls over the same text must produce identical intents.

// stopWords are dropped during keyword extraction (R1.1).
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"were": true, "that": true, "this": true, "with": true, "from": true,
	"have": true, "has": true, "had": true, "what": true, "when": true,
	"where": true, "which": true, "who": true, "how": true, "show": true,
	"find": true, "get": true, "give": true, "all": true, "any": true,
	"can": true, "about": true, "near": true, "list": true, "tell": true,
}

// synonymEntry maps one canonical entity name to its accepted synonyms.
type synonymEntry struct {
	Canonical string
	Synonyms  []string
}

// entityTable groups synonym entries under an entity category.
type entityTable struct {
	Category types.EntityCategory
	Entries  []synonymEntry
}

// entityTables holds the per-category synonym dictionaries (R2.1).
// The first matching synonym per canonical name wins.
var entityTables = []entityTable{
	{
		Category: types.EntityPlanet,
		Entries: []synonymEntry{
			{"mercury", []string{"mercury"}},
			{"venus", []string{"venus"}},
			{"earth", []string{"earth", "terra"}},
			{"mars", []string{"mars", "red planet", "martian"}},
			{"jupiter", []string{"jupiter", "jovian"}},
			{"saturn", []string{"saturn"}},
			{"uranus", []string{"uranus"}},
			{"neptune", []string{"neptune"}},
		},
	},
	{
		Category: types.EntityRover,
		Entries: []synonymEntry{
			{"curiosity", []string{"curiosity"}},
			{"perseverance", []string{"perseverance", "percy"}},
			{"opportunity", []string{"opportunity", "oppy"}},
			{"spirit", []string{"spirit"}},
		},
	},
	{
		Category: types.EntitySpacecraft,
		Entries: []synonymEntry{
			{"iss", []string{"iss", "international space station", "space station"}},
			{"hubble", []string{"hubble"}},
			{"jwst", []string{"jwst", "james webb", "webb telescope"}},
			{"voyager", []string{"voyager"}},
		},
	},
	{
		Category: types.EntityPhenomenon,
		Entries: []synonymEntry{
			{"solar_flare", []string{"solar flare", "solar flares", "flare"}},
			{"cme", []string{"coronal mass ejection", "coronal mass ejections", "cme"}},
			{"geomagnetic_storm", []string{"geomagnetic storm", "geomagnetic storms"}},
			{"asteroid", []string{"asteroid", "asteroids", "near earth object", "near earth objects", "neo"}},
			{"comet", []string{"comet", "comets"}},
			{"wildfire", []string{"wildfire", "wildfires"}},
			{"volcano", []string{"volcano", "volcanoes", "volcanic eruption", "eruption"}},
		},
	},
}

// weightedTerm is a single-token classification keyword with its weight.
type weightedTerm struct {
	Term   string
	Weight float64
}

// intentRule scores one intent category: token keywords carry individual
// weights, context-hint phrases a smaller fixed bonus (R6.2).
type intentRule struct {
	Category types.IntentCategory
	Keywords []weightedTerm
	Hints    []string
}

// hintBonus is the score added per matched context-hint phrase.
const hintBonus = 1.0

// confidenceNorm divides the winning score to produce the confidence;
// scores at or above it saturate at 1.0.
const confidenceNorm = 6.0

// fallbackConfidence is assigned when no category scores above zero and
// the interpreter falls back to general_search.
const fallbackConfidence = 0.25

// intentRules holds the classification table in tie-break order (R6.1).
var intentRules = []intentRule{
	{
		Category: types.IntentTracking,
		Keywords: []weightedTerm{
			{"iss", 3}, {"overhead", 3}, {"satellite", 2.5}, {"tracking", 2.5},
			{"position", 2}, {"orbit", 1.5}, {"altitude", 1.5}, {"pass", 1},
		},
		Hints: []string{"where is", "fly over", "space station", "right now"},
	},
	{
		Category: types.IntentImagery,
		Keywords: []weightedTerm{
			{"photo", 3}, {"photos", 3}, {"image", 3}, {"images", 3},
			{"picture", 3}, {"pictures", 3}, {"apod", 3}, {"epic", 2},
			{"camera", 2},
		},
		Hints: []string{"picture of the day", "taken by"},
	},
	{
		Category: types.IntentDiscovery,
		Keywords: []weightedTerm{
			{"discovered", 3}, {"exoplanet", 3}, {"exoplanets", 3},
			{"discovery", 2.5}, {"kepler", 2}, {"found", 2}, {"detected", 2},
			{"planet", 1.5}, {"planets", 1.5},
		},
		Hints: []string{"new planets", "earth sized", "discovered after"},
	},
	{
		Category: types.IntentComparison,
		Keywords: []weightedTerm{
			{"compare", 3}, {"versus", 2.5}, {"larger", 2}, {"smaller", 2},
			{"bigger", 2}, {"than", 1},
		},
		Hints: []string{"compared to", "difference between"},
	},
	{
		Category: types.IntentAggregation,
		Keywords: []weightedTerm{
			{"count", 3}, {"total", 2.5}, {"average", 2}, {"many", 1.5},
			{"number", 1.5},
		},
		Hints: []string{"how many"},
	},
	{
		Category: types.IntentSpaceWeather,
		Keywords: []weightedTerm{
			{"flare", 3}, {"flares", 3}, {"cme", 3}, {"geomagnetic", 3},
			{"storm", 2}, {"solar", 2}, {"aurora", 2},
		},
		Hints: []string{"space weather", "coronal mass ejection", "solar activity"},
	},
	{
		Category: types.IntentHabitability,
		Keywords: []weightedTerm{
			{"habitable", 3}, {"habitability", 3}, {"goldilocks", 3},
			{"life", 2}, {"zone", 1.5},
		},
		Hints: []string{"habitable zone", "support life", "earth like"},
	},
	{
		Category: types.IntentMission,
		Keywords: []weightedTerm{
			{"mission", 3}, {"rover", 2.5}, {"launch", 2}, {"landing", 2},
			{"manifest", 2}, {"curiosity", 2}, {"perseverance", 2},
		},
		Hints: []string{"mars rover", "mission manifest"},
	},
}

// sizeRule maps phrases onto a size category (R5.1).
type sizeRule struct {
	Size    types.SizeCategory
	Phrases []string
}

var sizeRules = []sizeRule{
	{types.SizeEarthLike, []string{"earth sized", "earth size", "earth like"}},
	{types.SizeSuperEarth, []string{"super earth", "super earths"}},
	{types.SizeJupiterLike, []string{"jupiter sized", "jupiter like", "hot jupiter", "hot jupiters"}},
	{types.SizeSmall, []string{"small planet", "small planets", "tiny"}},
	{types.SizeLarge, []string{"large planet", "large planets", "giant planet", "giant planets"}},
	{types.SizeRocky, []string{"rocky"}},
	{types.SizeGaseous, []string{"gaseous", "gas giant", "gas giants"}},
}

// habitabilityPhrases set the habitable-zone flag when present (R5.2).
var habitabilityPhrases = []string{
	"habitable zone", "habitable", "goldilocks", "potentially habitable",
	"support life",
}

// starTypeRule maps phrases onto a stellar class (R5.3).
type starTypeRule struct {
	Star    types.StarType
	Phrases []string
}

var starTypeRules = []starTypeRule{
	{types.StarSunLike, []string{"sun like", "sunlike", "solar type", "like the sun"}},
	{types.StarMDwarf, []string{"m dwarf", "m dwarfs", "red dwarf", "red dwarfs"}},
	{types.StarKDwarf, []string{"k dwarf", "k dwarfs", "orange dwarf"}},
	{types.StarGType, []string{"g type", "g star"}},
	{types.StarFType, []string{"f type", "f star"}},
}

// operatorRule maps comparison phrases onto an operator kind (R7.1).
// Every matching rule is recorded, first occurrence per phrase.
type operatorRule struct {
	Kind    types.OperatorKind
	Phrases []string
}

var operatorRules = []operatorRule{
	{types.OpBetween, []string{"between"}},
	{types.OpGreater, []string{"larger than", "greater than", "bigger than", "more than", "above"}},
	{types.OpLess, []string{"smaller than", "less than", "fewer than", "below", "under"}},
	{types.OpNot, []string{"not", "except", "without"}},
	{types.OpOr, []string{"or"}},
	{types.OpAnd, []string{"and"}},
}

// relativeRecencyPhrases trigger the relative temporal shape (R3.3).
var relativeRecencyPhrases = []string{
	"recently", "recent", "latest", "newest", "this year", "last week",
	"past week", "past month", "today",
}
