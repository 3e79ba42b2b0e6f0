package model

import "fmt"

// DimensionScore is the state of one dimension inside a Snapshot.
type DimensionScore struct {
	ID    DimensionID
	Spec  DimensionSpec
	Score int
	Notes string
}

// Severity returns the severity bucket of the score.
func (d DimensionScore) Severity() Severity {
	return SeverityOf(d.Score)
}

// Snapshot is a read-only copy of a session taken for export.
// Dimensions are listed in declaration order.
type Snapshot struct {
	CompanyName string
	Dimensions  []DimensionScore
}

// Validate checks that the snapshot holds exactly the six dimensions in
// declaration order with scores inside [0, 100].
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrMalformedModel)
	}
	if len(s.Dimensions) != DimensionCount {
		return fmt.Errorf("%w: expected %d dimensions, got %d",
			ErrMalformedModel, DimensionCount, len(s.Dimensions))
	}
	for i, d := range s.Dimensions {
		if d.ID != DimensionID(i) {
			return fmt.Errorf("%w: position %d holds %q, expected %q",
				ErrMalformedModel, i, d.ID.Slug(), DimensionID(i).Slug())
		}
		if d.Spec.ID != d.ID.Slug() {
			return fmt.Errorf("%w: dimension %q carries spec %q",
				ErrMalformedModel, d.ID.Slug(), d.Spec.ID)
		}
		if d.Score < MinScore || d.Score > MaxScore {
			return fmt.Errorf("%w: %s: %w (got %d)",
				ErrMalformedModel, d.ID.Slug(), ErrOutOfRange, d.Score)
		}
	}
	return nil
}

// DisplayCompanyName returns the company name or "Not specified".
func (s *Snapshot) DisplayCompanyName() string {
	if s.CompanyName == "" {
		return "Not specified"
	}
	return s.CompanyName
}

// Scores returns the scores in declaration order.
func (s *Snapshot) Scores() []int {
	scores := make([]int, len(s.Dimensions))
	for i, d := range s.Dimensions {
		scores[i] = d.Score
	}
	return scores
}

// AverageScore returns the mean of the scores rounded half up.
func (s *Snapshot) AverageScore() int {
	return roundedAverage(s.Scores())
}

// OverallSeverity returns the severity bucket of the average score.
func (s *Snapshot) OverallSeverity() Severity {
	return SeverityOf(s.AverageScore())
}

// HighScoreCount returns the number of dimensions scored 70 or above.
func (s *Snapshot) HighScoreCount() int {
	return countAtLeast(s.Scores(), HighThreshold)
}

// SeverityCounts returns how many dimensions fall into each bucket.
func (s *Snapshot) SeverityCounts() map[Severity]int {
	counts := map[Severity]int{
		SeverityLow:    0,
		SeverityMedium: 0,
		SeverityHigh:   0,
	}
	for _, d := range s.Dimensions {
		counts[d.Severity()]++
	}
	return counts
}
