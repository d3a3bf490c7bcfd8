package compare

import "fmt"

// NoWinnerRecommendation is returned when too few locations had usable
// scores to pick a winner.
const NoWinnerRecommendation = "Not enough locations with complete data to make a recommendation - " +
	"add more locations or try again once forecasts are available."

// GenerateRecommendation fills in the natural-language summary and
// tradeoff statements for a comparison. A tradeoff is only emitted when
// a non-winning location strictly leads the winner on a dimension.
func GenerateRecommendation(candidates []Candidate, res Result) Result {
	if res.Winner == nil {
		res.Recommendation = NoWinnerRecommendation
		return res
	}

	winner := findCandidate(candidates, res.Winner.ID)
	if winner == nil || winner.Score == nil {
		res.Recommendation = NoWinnerRecommendation
		return res
	}

	res.Recommendation = fmt.Sprintf("%s has the best overall conditions (score %.0f, %s).",
		winner.Name, winner.Score.Overall, winner.Score.Recommendation)

	type axis struct {
		leader    *Leader
		dimension Dimension
		winnerVal float64
	}
	axes := []axis{
		{res.Lighting, DimensionLighting, winner.Score.Lighting},
		{res.Weather, DimensionWeather, winner.Score.Weather},
		{res.Visibility, DimensionVisibility, winner.Score.Visibility},
	}

	for _, a := range axes {
		if a.leader == nil || a.leader.ID == res.Winner.ID {
			continue
		}
		if a.leader.Score > a.winnerVal {
			res.Tradeoffs = append(res.Tradeoffs, fmt.Sprintf(
				"%s has better %s (%.0f vs %.0f) despite a lower overall score.",
				a.leader.Name, a.dimension, a.leader.Score, a.winnerVal))
		}
	}

	return res
}

func findCandidate(candidates []Candidate, id string) *Candidate {
	for i := range candidates {
		if candidates[i].ID == id {
			return &candidates[i]
		}
	}
	return nil
}
