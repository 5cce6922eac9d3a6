package rating

// An Outcome is one pairwise game result from the perspective of a single
// player.
type Outcome int

const (
	OutcomeLoss Outcome = -1
	OutcomeDraw Outcome = 0
	OutcomeWin  Outcome = 1
)

// OutcomeOf derives the outcome from two raw puzzle scores: fewer guesses
// wins, equal scores draw. Raw values are 1-6 (solved in N guesses) or 7
// (failed to solve).
func OutcomeOf(playerValue, opponentValue int) Outcome {
	switch {
	case playerValue < opponentValue:
		return OutcomeWin
	case playerValue > opponentValue:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// Score maps the outcome to the numeric game score fed to Update.
func (o Outcome) Score() float64 {
	switch o {
	case OutcomeWin:
		return 1.0
	case OutcomeLoss:
		return 0.0
	default:
		return 0.5
	}
}

// Inverse returns the same game seen from the other player.
func (o Outcome) Inverse() Outcome {
	return -o
}
