package model

// Severity is the Low/Medium/High bucket of a 0-100 score.
type Severity int

const (
	// SeverityLow covers scores below 30.
	SeverityLow Severity = iota

	// SeverityMedium covers scores from 30 up to and including 69.
	SeverityMedium

	// SeverityHigh covers scores of 70 and above.
	SeverityHigh
)

// Bucket thresholds. A score equal to a threshold belongs to the upper band.
const (
	MediumThreshold = 30
	HighThreshold   = 70
)

// SeverityOf buckets a score. It does not validate the range; callers that
// need validation go through Session.SetScore or Snapshot.Validate.
func SeverityOf(score int) Severity {
	switch {
	case score < MediumThreshold:
		return SeverityLow
	case score < HighThreshold:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// Severities returns the buckets from lowest to highest.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh}
}

// String returns the display label of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Color returns the display color name associated with the severity,
// red for low, orange for medium and green for high.
func (s Severity) Color() string {
	switch s {
	case SeverityLow:
		return "red"
	case SeverityMedium:
		return "orange"
	case SeverityHigh:
		return "green"
	default:
		return "gray"
	}
}

// Bounds returns the inclusive score range of the band.
func (s Severity) Bounds() (lo, hi int) {
	switch s {
	case SeverityLow:
		return MinScore, MediumThreshold - 1
	case SeverityMedium:
		return MediumThreshold, HighThreshold - 1
	default:
		return HighThreshold, MaxScore
	}
}
