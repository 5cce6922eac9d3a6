// Package rating implements the Glicko-2 rating system for multi-way daily
// rounds: scale conversion, the iterative volatility update, deviation decay
// over idle time, and outcome derivation from raw puzzle scores.
//
// Reference: http://www.glicko.net/glicko/glicko2.pdf
package rating

import "math"

const (
	// DefaultRating is the rating assigned to a player who never played.
	DefaultRating = 1500.0

	// DefaultVolatility is the starting volatility (σ) of a new player.
	DefaultVolatility = 0.06

	// MinDeviation and MaxDeviation bound the rating deviation (RD) on the
	// public scale. A new player starts at MaxDeviation.
	MinDeviation = 30.0
	MaxDeviation = 350.0

	// tau is the system constant constraining volatility change over time.
	tau = 0.5
)

// A Rating is a player's full Glicko-2 state on the public, 1500-centered
// scale.
type Rating struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// NewRating returns the state of a player who never played a round.
func NewRating() Rating {
	return Rating{
		Rating:     DefaultRating,
		Deviation:  MaxDeviation,
		Volatility: DefaultVolatility,
	}
}

// An Opponent is one game result from the perspective of the player being
// updated: the opponent's public rating state and the score of the game
// (1 win, 0.5 draw, 0 loss).
type Opponent struct {
	Rating    float64
	Deviation float64
	Score     float64
}

// Update runs one Glicko-2 rating update for a player against a batch of
// opponents and returns the new state, with the deviation clamped to
// [MinDeviation, MaxDeviation].
//
// With no opponents the state is returned unchanged: a player without
// round-mates neither gains nor loses rating (idle-time deviation decay is
// the caller's concern and happens before this call, see DecayDeviation).
func Update(r Rating, opponents []Opponent) (Rating, error) {
	if len(opponents) == 0 {
		return r, nil
	}

	mu, phi := toInternal(r.Rating, r.Deviation)

	// Estimated variance of the rating based on game outcomes (v) and sum
	// of outcome deltas (Σ g(φⱼ)·(sⱼ − E)), shared by steps 3, 4, and 8.
	var vInv, outcomeSum float64
	for _, opp := range opponents {
		muJ, phiJ := toInternal(opp.Rating, opp.Deviation)
		gJ := g(phiJ)
		e := expectedScore(mu, muJ, phiJ)
		vInv += gJ * gJ * e * (1 - e)
		outcomeSum += gJ * (opp.Score - e)
	}

	if vInv <= 0 {
		// Degenerate opponents (e.g. E saturated to 0 or 1 beyond float
		// precision) carry no information, same as an empty round.
		return r, nil
	}

	v := 1 / vInv
	delta := v * outcomeSum

	sigma, err := solveVolatility(r.Volatility, phi, v, delta)
	if err != nil {
		return Rating{}, err
	}

	phiStar := math.Sqrt(phi*phi + sigma*sigma)
	newPhi := 1 / math.Sqrt(1/(phiStar*phiStar)+1/v)
	newMu := mu + newPhi*newPhi*outcomeSum

	newRating, newDeviation := toPublic(newMu, newPhi)

	return Rating{
		Rating:     newRating,
		Deviation:  clampDeviation(newDeviation),
		Volatility: sigma,
	}, nil
}

// ConservativeRating is the pessimistic skill floor (rating − 2·RD) used to
// order leaderboards, truncated to an integer.
func ConservativeRating(rating, deviation float64) int {
	return int(math.Floor(rating - 2*deviation))
}

func clampDeviation(rd float64) float64 {
	return math.Min(math.Max(rd, MinDeviation), MaxDeviation)
}
