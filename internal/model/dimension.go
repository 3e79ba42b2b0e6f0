package model

import (
	"fmt"
	"slices"
)

// DimensionID identifies one of the six IMPACT dimensions.
// The zero value is Integration; the declaration order of the constants is
// the order used by every report and chart.
type DimensionID int

const (
	// Integration rates platform connectivity.
	Integration DimensionID = iota
	// Monetization rates viability and unit economics.
	Monetization
	// PainPoint rates how fundamental the solved problem is.
	PainPoint
	// Automation rates technology depth.
	Automation
	// Compliance rates trust and regulatory stance.
	Compliance
	// Target rates inclusion of underserved segments.
	Target
)

// DimensionCount is the number of IMPACT dimensions.
const DimensionCount = 6

// DimensionIDs returns all dimension ids in declaration order.
func DimensionIDs() []DimensionID {
	return []DimensionID{Integration, Monetization, PainPoint, Automation, Compliance, Target}
}

// Valid reports whether id names one of the six dimensions.
func (id DimensionID) Valid() bool {
	return id >= Integration && id <= Target
}

// Slug returns the stable string id used in files and JSON output.
// An invalid id returns "unknown".
func (id DimensionID) Slug() string {
	if !id.Valid() {
		return "unknown"
	}
	return dimensionTable[id].ID
}

// String implements fmt.Stringer.
func (id DimensionID) String() string {
	return id.Slug()
}

// ParseDimensionID resolves a slug such as "painPoint" to its DimensionID.
func ParseDimensionID(slug string) (DimensionID, error) {
	for i, d := range dimensionTable {
		if d.ID == slug {
			return DimensionID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDimension, slug)
}

// Rubric holds the anchor text for each severity band of a dimension.
type Rubric struct {
	Low    string
	Medium string
	High   string
}

// For returns the rubric text for the given severity band.
func (r Rubric) For(s Severity) string {
	switch s {
	case SeverityLow:
		return r.Low
	case SeverityMedium:
		return r.Medium
	case SeverityHigh:
		return r.High
	default:
		return ""
	}
}

// DimensionSpec describes one evaluation axis.
type DimensionSpec struct {
	ID               string
	Letter           string
	Icon             string
	Title            string
	Subtitle         string
	Question         string
	LeftLabel        string
	RightLabel       string
	Rubric           Rubric
	ChallengePrompts []string
}

// Dimension returns a copy of the spec for id.
func Dimension(id DimensionID) (DimensionSpec, error) {
	if !id.Valid() {
		return DimensionSpec{}, fmt.Errorf("%w: %d", ErrInvalidDimension, int(id))
	}
	return cloneSpec(dimensionTable[id]), nil
}

// Dimensions returns copies of all six specs in declaration order.
func Dimensions() []DimensionSpec {
	specs := make([]DimensionSpec, len(dimensionTable))
	for i, d := range dimensionTable {
		specs[i] = cloneSpec(d)
	}
	return specs
}

func cloneSpec(d DimensionSpec) DimensionSpec {
	d.ChallengePrompts = slices.Clone(d.ChallengePrompts)
	return d
}

// dimensionTable is indexed by DimensionID. Callers only ever see copies.
var dimensionTable = [DimensionCount]DimensionSpec{
	Integration: {
		ID:         "integration",
		Letter:     "I",
		Icon:       "🔗",
		Title:      "Integration",
		Subtitle:   "Platform Theory & Connectivity",
		Question:   `Is it a standalone "island" or does it connect openly with others?`,
		LeftLabel:  "Standalone App (Island)",
		RightLabel: "Open Ecosystem / API Platform",
		Rubric: Rubric{
			Low:    "A closed product with no public API and no meaningful partner integrations.",
			Medium: "Some partner integrations or a limited API, but the ecosystem is not central to the value.",
			High:   "An open platform with documented APIs that third parties actively build on.",
		},
		ChallengePrompts: []string{
			"What evidence do they provide about their API partnerships?",
			"Are their integrations truly bidirectional or just cosmetic?",
			"Do they have a documented developer platform?",
		},
	},
	Monetization: {
		ID:         "monetization",
		Letter:     "M",
		Icon:       "💰",
		Title:      "Monetization",
		Subtitle:   "Viability & Unit Economics",
		Question:   `Is the model based on "growth at all costs" or sustainable revenue?`,
		LeftLabel:  "Unclear / Burning Cash",
		RightLabel: "Clear / Sustainable Economics",
		Rubric: Rubric{
			Low:    "No clear revenue model; growth is funded by investors with no path to profit.",
			Medium: "Revenue exists but unit economics are unproven or depend on continued subsidy.",
			High:   "Profitable or clearly on track, with customer lifetime value well above acquisition cost.",
		},
		ChallengePrompts: []string{
			"Can they articulate their unit economics clearly?",
			"What is their path to profitability?",
			"How do customer acquisition costs compare to lifetime value?",
		},
	},
	PainPoint: {
		ID:         "painPoint",
		Letter:     "P",
		Icon:       "🩹",
		Title:      "Pain Point",
		Subtitle:   "Differentiation Strategy",
		Question:   "Are they solving a slightly better digital experience, or a fundamentally broken process?",
		LeftLabel:  "Nice-to-have (Better UI)",
		RightLabel: "Must-have (10x Solution)",
		Rubric: Rubric{
			Low:    "A nicer interface on an existing process that users could easily abandon.",
			Medium: "A noticeable improvement that saves time or money, but the old way still works.",
			High:   "Fixes a fundamentally broken process; going back would be painful for users.",
		},
		ChallengePrompts: []string{
			"What is the incumbent solution they're replacing?",
			"Is this 10% better or 10x better?",
			"What happens if users go back to the old way?",
		},
	},
	Automation: {
		ID:         "automation",
		Letter:     "A",
		Icon:       "🤖",
		Title:      "Automation",
		Subtitle:   "Technology Depth",
		Question:   `Is the "tech" just a nice mobile interface, or genuine deep technology?`,
		LeftLabel:  `Basic App "Wrapper"`,
		RightLabel: "Genuine Deep Tech / AI Engine",
		Rubric: Rubric{
			Low:    "A front end over third-party infrastructure with little proprietary technology.",
			Medium: "Some proprietary logic or data, but largely rule-based and replicable.",
			High:   "Deep proprietary technology such as trained models or core infrastructure that is hard to copy.",
		},
		ChallengePrompts: []string{
			"What proprietary technology do they actually own?",
			"Is there real machine learning or just rule-based logic?",
			"Could this be replicated easily by competitors?",
		},
	},
	Compliance: {
		ID:         "compliance",
		Letter:     "C",
		Icon:       "⚖️",
		Title:      "Compliance",
		Subtitle:   "Trust & Regulatory Stance",
		Question:   "How do they build trust without a 100-year history? Do they operate in grey areas?",
		LeftLabel:  `Regulatory "Grey Area"`,
		RightLabel: "Highly Compliant / Licensed",
		Rubric: Rubric{
			Low:    "Operates in a regulatory grey area or has faced enforcement actions.",
			Medium: "Relies on partner licenses or is in the process of obtaining its own.",
			High:   "Holds its own licenses and treats compliance as a visible trust signal.",
		},
		ChallengePrompts: []string{
			"What licenses do they hold?",
			"Have they faced regulatory scrutiny?",
			"How do they signal trustworthiness to users?",
		},
	},
	Target: {
		ID:         "target",
		Letter:     "T",
		Icon:       "🎯",
		Title:      "Target",
		Subtitle:   `Inclusion & The "Long Tail"`,
		Question:   "Are they competing for the same customers as major banks, or serving segments banks ignore?",
		LeftLabel:  "Serving the Mass Market",
		RightLabel: "Serving the Underserved Niche",
		Rubric: Rubric{
			Low:    "Competes head-on with incumbent banks for the same mainstream customers.",
			Medium: "Serves a partly neglected segment alongside the mass market.",
			High:   "Focused on customers that traditional providers ignore or cannot serve profitably.",
		},
		ChallengePrompts: []string{
			"Who specifically is being underserved?",
			"Why have traditional providers ignored this segment?",
			"Is this truly underserved or just a marketing claim?",
		},
	},
}
