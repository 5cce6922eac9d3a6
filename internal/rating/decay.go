package rating

import (
	"math"
	"time"
)

// deviationDecayPerDay is how many points of rating uncertainty a player
// accrues per day without playing.
const deviationDecayPerDay = 15.0

// DecayDeviation inflates a deviation based on idle time since the player's
// last recorded game. A zero lastPlayedAt means the player never played and
// yields MaxDeviation regardless of the input. The result never exceeds
// MaxDeviation, and a non-positive elapsed time (clock skew, same-instant
// call) leaves the deviation untouched.
func DecayDeviation(deviation float64, lastPlayedAt, now time.Time) float64 {
	if lastPlayedAt.IsZero() {
		return MaxDeviation
	}

	days := now.Sub(lastPlayedAt).Seconds() / 86400
	if days <= 0 {
		return deviation
	}

	decayed := math.Sqrt(deviation*deviation + deviationDecayPerDay*deviationDecayPerDay*days)

	return math.Min(decayed, MaxDeviation)
}
