// Package compare ranks evaluated locations and explains the tradeoffs
// between them.
package compare

import (
	"github.com/photoscout/photoscout/internal/scoring"
)

// Candidate is one evaluated location entering a comparison. A nil
// Score or a non-nil Err marks the candidate unusable; its presence
// must not affect the ranking of the others.
type Candidate struct {
	ID   string
	Name string

	Score *scoring.Score
	Err   error
}

// Usable reports whether the candidate can participate in rankings.
func (c Candidate) Usable() bool {
	return c.Err == nil && c.Score != nil
}

// Dimension names one sub-score axis.
type Dimension string

const (
	DimensionLighting   Dimension = "lighting"
	DimensionWeather    Dimension = "weather"
	DimensionVisibility Dimension = "visibility"
)

// Leader identifies the location leading on one axis.
type Leader struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Result is the outcome of comparing a batch of candidates. It is built
// fresh per comparison and never mutated afterwards.
type Result struct {
	// Winner is the location with the strictly highest overall score, or
	// nil when fewer than two candidates were usable.
	Winner *Leader `json:"overallWinner"`

	// Per-dimension leaders, computed independently with the same
	// tie-break rule as the winner.
	Lighting   *Leader `json:"lightingLeader"`
	Weather    *Leader `json:"weatherLeader"`
	Visibility *Leader `json:"visibilityLeader"`

	// InsufficientData is set when fewer than two candidates had usable
	// scores, instead of reporting a degenerate winner.
	InsufficientData bool `json:"insufficientData"`

	// Recommendation and Tradeoffs are filled by
	// GenerateRecommendation.
	Recommendation string   `json:"recommendation,omitempty"`
	Tradeoffs      []string `json:"tradeoffs,omitempty"`
}
