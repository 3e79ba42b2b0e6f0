package model

import "fmt"

// Score bounds and the value every dimension starts from.
const (
	MinScore     = 0
	MaxScore     = 100
	DefaultScore = 50
)

// Session holds the mutable state of one scoring session: the company being
// analysed plus a score and a note for each of the six dimensions.
//
// Scores and notes are fixed-size arrays indexed by DimensionID, so a session
// can never be missing a dimension or carry an extra one. A Session is owned
// by a single interaction loop and is not safe for concurrent use.
type Session struct {
	companyName string
	scores      [DimensionCount]int
	notes       [DimensionCount]string
}

// NewSession returns a session with default values.
func NewSession() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// CompanyName returns the name of the company being analysed.
func (s *Session) CompanyName() string {
	return s.companyName
}

// SetCompanyName replaces the company name. Any text is accepted.
func (s *Session) SetCompanyName(name string) {
	s.companyName = name
}

// Score returns the current score of a dimension.
func (s *Session) Score(id DimensionID) (int, error) {
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDimension, int(id))
	}
	return s.scores[id], nil
}

// SetScore sets the score of a dimension. The session is left untouched when
// the id is unknown or the value lies outside [0, 100].
func (s *Session) SetScore(id DimensionID, value int) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDimension, int(id))
	}
	if value < MinScore || value > MaxScore {
		return fmt.Errorf("%s: %w (got %d)", id.Slug(), ErrOutOfRange, value)
	}
	s.scores[id] = value
	return nil
}

// Note returns the current note of a dimension.
func (s *Session) Note(id DimensionID) (string, error) {
	if !id.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidDimension, int(id))
	}
	return s.notes[id], nil
}

// SetNote replaces the note of a dimension. Text of any length is accepted.
func (s *Session) SetNote(id DimensionID, text string) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDimension, int(id))
	}
	s.notes[id] = text
	return nil
}

// Reset clears the company name and notes and sets every score to 50.
// The whole state is replaced in a single assignment.
func (s *Session) Reset() {
	var fresh Session
	for i := range fresh.scores {
		fresh.scores[i] = DefaultScore
	}
	*s = fresh
}

// AverageScore returns the mean of the six scores rounded half up.
func (s *Session) AverageScore() int {
	return roundedAverage(s.scores[:])
}

// Severity buckets a score. It is provided on Session for callers that hold
// a session rather than importing SeverityOf directly.
func (s *Session) Severity(score int) Severity {
	return SeverityOf(score)
}

// HighScoreCount returns the number of dimensions scored 70 or above.
func (s *Session) HighScoreCount() int {
	return countAtLeast(s.scores[:], HighThreshold)
}

// Snapshot returns an immutable copy of the session for exporters.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		CompanyName: s.companyName,
		Dimensions:  make([]DimensionScore, DimensionCount),
	}
	for _, id := range DimensionIDs() {
		snap.Dimensions[id] = DimensionScore{
			ID:    id,
			Spec:  cloneSpec(dimensionTable[id]),
			Score: s.scores[id],
			Notes: s.notes[id],
		}
	}
	return snap
}

// roundedAverage divides the sum by the number of values rounding half up.
// Scores are never negative, so integer arithmetic is exact.
func roundedAverage(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, v := range scores {
		sum += v
	}
	n := len(scores)
	return (2*sum + n) / (2 * n)
}

func countAtLeast(scores []int, threshold int) int {
	count := 0
	for _, v := range scores {
		if v >= threshold {
			count++
		}
	}
	return count
}
