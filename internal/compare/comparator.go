package compare

import "github.com/photoscout/photoscout/internal/scoring"

// Compare ranks candidates by overall score and per-dimension
// sub-scores. Ties break toward the first-listed candidate, so results
// are deterministic for a given input order. Candidates with errors or
// missing scores are skipped without disturbing the others.
func Compare(candidates []Candidate) Result {
	usable := 0
	for _, c := range candidates {
		if c.Usable() {
			usable++
		}
	}

	if usable < 2 {
		return Result{InsufficientData: true}
	}

	return Result{
		Winner:     pickLeader(candidates, func(s *scoring.Score) float64 { return s.Overall }),
		Lighting:   pickLeader(candidates, func(s *scoring.Score) float64 { return s.Lighting }),
		Weather:    pickLeader(candidates, func(s *scoring.Score) float64 { return s.Weather }),
		Visibility: pickLeader(candidates, func(s *scoring.Score) float64 { return s.Visibility }),
	}
}

// pickLeader selects the usable candidate with the strictly highest
// value; an equal value never displaces an earlier candidate.
func pickLeader(candidates []Candidate, value func(*scoring.Score) float64) *Leader {
	var leader *Leader
	for _, c := range candidates {
		if !c.Usable() {
			continue
		}
		v := value(c.Score)
		if leader == nil || v > leader.Score {
			leader = &Leader{ID: c.ID, Name: c.Name, Score: v}
		}
	}
	return leader
}
