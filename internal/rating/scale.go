package rating

import "math"

// scale converts between the public 1500-centered scale and the internal
// zero-centered Glicko-2 scale.
const scale = 173.7178

func toInternal(rating, deviation float64) (mu, phi float64) {
	return (rating - DefaultRating) / scale, deviation / scale
}

func toPublic(mu, phi float64) (rating, deviation float64) {
	return mu*scale + DefaultRating, phi * scale
}

// g dampens the impact of a result by the opponent's rating uncertainty.
// g(φ) = 1/sqrt(1 + 3φ²/π²)
func g(phi float64) float64 {
	return 1 / math.Sqrt(1+3*phi*phi/(math.Pi*math.Pi))
}

// expectedScore is the win probability of the player (μ) against one
// opponent (μⱼ, φⱼ).
// E(μ, μⱼ, φⱼ) = 1/(1 + exp(−g(φⱼ)·(μ − μⱼ)))
func expectedScore(mu, muJ, phiJ float64) float64 {
	return 1 / (1 + math.Exp(-g(phiJ)*(mu-muJ)))
}
