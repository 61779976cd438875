package rating

import "math"

// DefaultScale is the rating gap that shifts the odds tenfold.
const DefaultScale = 400.0

// ExpectedScore is the logistic expectation, in (0,1), of how well a team
// rated teamRating performs on a task rated taskRating.
func ExpectedScore(teamRating, taskRating float64) float64 {
	return ExpectedScoreWithScale(teamRating, taskRating, DefaultScale)
}

// ExpectedScoreWithScale is ExpectedScore with an explicit scale.
func ExpectedScoreWithScale(teamRating, taskRating, scale float64) float64 {
	return 1 / (1 + math.Pow(10, (taskRating-teamRating)/scale))
}
